package log

import (
	"encoding/json"
	"log"
	"time"
)

type entry struct {
	TS     string         `json:"ts"`
	Level  string         `json:"level"`
	Action string         `json:"action,omitempty"`
	UserID int64          `json:"user_id,omitempty"`
	Err    string         `json:"err,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

func write(level, action string, userID int64, err error, fields map[string]any) {
	e := entry{TS: time.Now().UTC().Format(time.RFC3339), Level: level, Action: action, UserID: userID, Fields: fields}
	if err != nil {
		e.Err = err.Error()
	}
	b, _ := json.Marshal(e)
	log.Println(string(b))
}

func Info(action string, userID int64, fields map[string]any) {
	write("info", action, userID, nil, fields)
}
func Audit(action string, userID int64, fields map[string]any) {
	write("audit", action, userID, nil, fields)
}
func Security(action string, userID int64, fields map[string]any) {
	write("warn", action, userID, nil, fields)
}
func Error(action string, userID int64, err error, fields map[string]any) {
	write("error", action, userID, err, fields)
}
