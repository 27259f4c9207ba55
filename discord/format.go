package discord

import (
	"fmt"
	"strings"
)

const (
	FormatContent     = "content"
	FormatRoleMention = "role-mention"
)

// Message is the JSON body accepted by a Discord webhook.
type Message struct {
	Content         string           `json:"content"`
	AllowedMentions *AllowedMentions `json:"allowed_mentions,omitempty"`
}

type AllowedMentions struct {
	Parse []string `json:"parse"`
}

// Formatter turns relayed text into the outbound webhook message.
type Formatter interface {
	Format(text string) Message
}

// ContentFormatter forwards the text as the message content.
type ContentFormatter struct{}

func (ContentFormatter) Format(text string) Message {
	return Message{Content: text}
}

// RoleMentionFormatter pings a role ahead of the text and only allows role
// mentions to resolve.
type RoleMentionFormatter struct {
	RoleID string
}

func (f RoleMentionFormatter) Format(text string) Message {
	return Message{
		Content:         fmt.Sprintf("<@&%v> new post!\n%v", f.RoleID, text),
		AllowedMentions: &AllowedMentions{Parse: []string{"roles"}},
	}
}

// NewFormatter selects the formatter named by mode.
func NewFormatter(mode, roleID string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", FormatContent:
		return ContentFormatter{}, nil
	case FormatRoleMention:
		roleID = strings.TrimSpace(roleID)
		if roleID == "" {
			return nil, fmt.Errorf("format %v requires a mention role id", FormatRoleMention)
		}
		return RoleMentionFormatter{RoleID: roleID}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: expected %v or %v", mode, FormatContent, FormatRoleMention)
	}
}
