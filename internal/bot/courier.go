package bot

import (
	"path/filepath"
	"time"

	tele "gopkg.in/telebot.v3"
)

// Courier sends fulfillment messages and documents to private chats and mints
// channel invite links. It backs both the Courier and Inviter collaborator
// interfaces of the fulfillment service.
type Courier struct {
	tb *tele.Bot
}

func NewCourier(tb *tele.Bot) *Courier { return &Courier{tb: tb} }

func (t *Courier) SendMessage(userID int64, text string) error {
	_, err := t.tb.Send(tele.ChatID(userID), text)
	return err
}

func (t *Courier) SendDocument(userID int64, path, caption string) error {
	doc := &tele.Document{
		File:     tele.FromDisk(path),
		FileName: filepath.Base(path),
		Caption:  caption,
	}
	_, err := t.tb.Send(tele.ChatID(userID), doc)
	return err
}

func (t *Courier) CreateSingleUseLink(channelID int64, ttl time.Duration) (string, error) {
	link, err := t.tb.CreateInviteLink(tele.ChatID(channelID), &tele.ChatInviteLink{
		ExpireUnixtime: time.Now().Add(ttl).Unix(),
		MemberLimit:    1,
	})
	if err != nil {
		return "", err
	}
	return link.InviteLink, nil
}
