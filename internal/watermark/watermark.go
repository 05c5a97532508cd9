// Package watermark personalizes purchased workflow files by embedding a
// license block binding the copy to the purchase that produced it.
package watermark

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("workflow file not found")
	ErrCorrupt  = errors.New("workflow file is not valid JSON")
)

type Request struct {
	SourcePath string
	Slug       string
	BuyerID    int64
	Username   string
	PaymentID  string
	Version    string
}

type Personalizer struct {
	OutDir string
	loc    *time.Location
}

func New(outDir string) *Personalizer {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		loc = time.Local
	}
	return &Personalizer{OutDir: outDir, loc: loc}
}

// Personalize reads the source workflow, injects the license block and writes
// a uniquely named copy under OutDir, returning its path.
//
// If the source already carries a top-level "license" key it is overwritten
// (last write wins). The output name has second granularity: two purchases of
// the same workflow by the same buyer within one second collide, which is an
// accepted risk.
func (p *Personalizer) Personalize(req Request) (string, error) {
	raw, err := os.ReadFile(req.SourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, req.SourcePath)
		}
		return "", fmt.Errorf("read %s: %w", req.SourcePath, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("%w: %s", ErrCorrupt, req.SourcePath)
	}

	now := time.Now()
	token := uuid.New()
	doc["license"] = map[string]any{
		"purchased_by":  fmt.Sprintf("TG_USER_ID_%d", req.BuyerID),
		"username":      "@" + req.Username,
		"purchase_date": now.Format(time.RFC3339),
		"payment_id":    req.PaymentID,
		"update_token":  hex.EncodeToString(token[:]),
		"version":       req.Version,
	}

	if err := os.MkdirAll(p.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("watermark dir: %w", err)
	}

	name := fmt.Sprintf("%d_%s_%s.json", req.BuyerID, req.Slug, now.In(p.loc).Format("2006-01-02_15-04-05"))
	out := filepath.Join(p.OutDir, name)

	buf, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(out, buf, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	return out, nil
}

// Discard removes a personalized artifact. Artifacts are transient: they must
// not outlive the delivery attempt that consumes them.
func (p *Personalizer) Discard(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
