// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Channel is a regional forum channel.
type Channel string

const (
	ChannelGlobal  Channel = "DIABOLO GLOBAL"
	ChannelAmerica Channel = "DIABOLO AMERICA"
	ChannelEuropa  Channel = "DIABOLO EUROPA"
	ChannelAsia    Channel = "DIABOLO ASIA"
	ChannelAfrica  Channel = "DIABOLO AFRICA"
	ChannelOceania Channel = "DIABOLO OCEANIA"
)

// Channels lists every forum channel in display order.
var Channels = []Channel{
	ChannelGlobal,
	ChannelAmerica,
	ChannelEuropa,
	ChannelAsia,
	ChannelAfrica,
	ChannelOceania,
}

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	for _, ch := range Channels {
		if c == ch {
			return true
		}
	}
	return false
}

// ParseChannel accepts a channel either by its full name ("DIABOLO ASIA")
// or by its region alone ("asia"), case-insensitively.
func ParseChannel(s string) (Channel, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	if !strings.HasPrefix(s, "DIABOLO ") {
		s = "DIABOLO " + s
	}
	c := Channel(s)
	return c, c.Valid()
}

// MediaType describes what a forum post carries besides its text.
type MediaType string

const (
	MediaText  MediaType = "text"
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaLink  MediaType = "link"
)

// Valid reports whether m is a known media type.
func (m MediaType) Valid() bool {
	switch m {
	case MediaText, MediaImage, MediaVideo, MediaLink:
		return true
	}
	return false
}

// ForumPost is a message in a regional channel. Author details are copied
// onto the post when it is written.
type ForumPost struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	UserCountry string    `json:"user_country"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Channel     Channel   `json:"channel"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
	Slug        string    `json:"slug"`
	MediaType   MediaType `json:"media_type"`
	MediaURL    *string   `json:"media_url,omitempty"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
}
