package conversations

import (
	"bytes"
	"log"
	"sort"
	"time"

	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/utils"
)

// EffectiveTime orders conversations: last message, else last update, else creation.
// A record with none of them has the zero time and sorts last.
func EffectiveTime(c *models.Inquiry) time.Time {
	switch {
	case !c.LastMessageAt.IsZero():
		return c.LastMessageAt
	case !c.UpdatedAt.IsZero():
		return c.UpdatedAt
	default:
		return c.CreatedAt
	}
}

// Visible reports whether user may see c in their list.
func Visible(c *models.Inquiry, user utils.SixID) bool {
	return utils.ContainsSixID(c.Participants, user) && !utils.ContainsSixID(c.HiddenFor, user)
}

// Unread reports whether c has messages user has not read.
func Unread(c *models.Inquiry, user utils.SixID) bool {
	return utils.ContainsSixID(c.UnreadFor, user)
}

// Normalize fills in what older or partially written records lack: empty sets
// instead of nil and participants derived from the owner and requester.
func Normalize(items []models.Inquiry) []models.Inquiry {
	out := make([]models.Inquiry, 0, len(items))
	for _, c := range items {
		if c.HiddenFor == nil {
			c.HiddenFor = []utils.SixID{}
		}
		if c.UnreadFor == nil {
			c.UnreadFor = []utils.SixID{}
		}
		if len(c.Participants) == 0 {
			c.Participants = ParticipantsOf(c.OwnerID, c.UserID)
		}
		if EffectiveTime(&c).IsZero() {
			log.Printf("WARN: conversation %s has no timestamp, ordering it last", c.ID)
		}
		out = append(out, c)
	}
	return out
}

// ParticipantsOf returns the distinct non-empty ids among owner and requester.
func ParticipantsOf(owner, requester *utils.SixID) []utils.SixID {
	out := []utils.SixID{}
	for _, id := range []*utils.SixID{owner, requester} {
		if id == nil || id.IsZero() || utils.ContainsSixID(out, *id) {
			continue
		}
		out = append(out, *id)
	}
	return out
}

// Merge combines the owner and requester streams into the list user sees.
// A conversation present in both keeps the copy with the later effective time.
// The result is ordered newest first with the id as tie-break and holds only
// conversations visible to user.
func Merge(owner, requester []models.Inquiry, user utils.SixID) []models.Inquiry {
	byID := make(map[utils.SixID]models.Inquiry, len(owner)+len(requester))
	for _, bucket := range [][]models.Inquiry{owner, requester} {
		for _, c := range bucket {
			if prev, ok := byID[c.ID]; ok && !EffectiveTime(&c).After(EffectiveTime(&prev)) {
				continue
			}
			byID[c.ID] = c
		}
	}

	merged := make([]models.Inquiry, 0, len(byID))
	for _, c := range byID {
		if Visible(&c, user) {
			merged = append(merged, c)
		}
	}
	sort.Slice(merged, func(i, j int) bool {
		ti, tj := EffectiveTime(&merged[i]), EffectiveTime(&merged[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return bytes.Compare(merged[i].ID[:], merged[j].ID[:]) < 0
	})
	return merged
}

// UnreadCount is the badge number: visible conversations with unread messages for user.
func UnreadCount(list []models.Inquiry, user utils.SixID) int {
	n := 0
	for i := range list {
		if Unread(&list[i], user) {
			n++
		}
	}
	return n
}

// PartnerName is the name of the other side as user sees it.
func PartnerName(c *models.Inquiry, user utils.SixID) string {
	if c.OwnerID != nil && *c.OwnerID == user {
		return c.UserName
	}
	if c.OwnerName != "" {
		return c.OwnerName
	}
	return "Admin"
}

// Preview is the line shown under a conversation in the list.
func Preview(c *models.Inquiry) string {
	if c.LastMessageText != "" {
		return c.LastMessageText
	}
	return c.Comment
}

// Row is a conversation as it appears in one user's list.
type Row struct {
	models.Inquiry
	PartnerName string `json:"partner_name"`
	Preview     string `json:"preview"`
	Unread      bool   `json:"unread"`
}

// Rows decorates list for user, keeping its order.
func Rows(list []models.Inquiry, user utils.SixID) []Row {
	out := make([]Row, len(list))
	for i := range list {
		out[i] = Row{
			Inquiry:     list[i],
			PartnerName: PartnerName(&list[i], user),
			Preview:     Preview(&list[i]),
			Unread:      Unread(&list[i], user),
		}
	}
	return out
}

func indexOf(list []models.Inquiry, id utils.SixID) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
