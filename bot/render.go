package bot

import (
	"bytes"

	tele "gopkg.in/telebot.v4"
)

func photoFromBytes(data []byte) *tele.Photo {
	return &tele.Photo{File: tele.FromReader(bytes.NewReader(data))}
}
