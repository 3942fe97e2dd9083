package conversations

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/utils"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func at(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }

func conv(owner, user utils.SixID, created time.Time) models.Inquiry {
	return models.Inquiry{
		Base:         models.NewBase(),
		OwnerID:      &owner,
		UserID:       &user,
		CreatedAt:    created,
		Participants: []utils.SixID{owner, user},
		HiddenFor:    []utils.SixID{},
		UnreadFor:    []utils.SixID{},
	}
}

func ids(list []models.Inquiry) []utils.SixID {
	out := make([]utils.SixID, len(list))
	for i := range list {
		out[i] = list[i].ID
	}
	return out
}

func TestEffectiveTime_Precedence(t *testing.T) {
	c := models.Inquiry{CreatedAt: at(1)}
	assert.Equal(t, at(1), EffectiveTime(&c))
	c.UpdatedAt = at(2)
	assert.Equal(t, at(2), EffectiveTime(&c))
	c.LastMessageAt = at(3)
	assert.Equal(t, at(3), EffectiveTime(&c))
	assert.True(t, EffectiveTime(&models.Inquiry{}).IsZero())
}

func TestMerge_OrdersNewestFirst(t *testing.T) {
	me, a, b := utils.NewSixID(), utils.NewSixID(), utils.NewSixID()
	old := conv(me, a, at(1))
	mid := conv(b, me, at(2))
	recent := conv(me, b, at(0))
	recent.LastMessageAt = at(10)

	got := Merge([]models.Inquiry{old, recent}, []models.Inquiry{mid}, me)
	assert.Equal(t, []utils.SixID{recent.ID, mid.ID, old.ID}, ids(got))
}

func TestMerge_KeepsLaterCopyOfSameConversation(t *testing.T) {
	me := utils.NewSixID()
	// Owner and requester are the same account, so both streams see the record.
	stale := conv(me, me, at(0))
	stale.UpdatedAt = at(1)
	fresh := stale
	fresh.UpdatedAt = at(5)
	fresh.LastMessageText = "newer"

	for _, order := range [][2][]models.Inquiry{
		{{stale}, {fresh}},
		{{fresh}, {stale}},
	} {
		got := Merge(order[0], order[1], me)
		require.Len(t, got, 1)
		assert.Equal(t, "newer", got[0].LastMessageText)
	}
}

func TestMerge_LastMessageBeatsUpdate(t *testing.T) {
	me, other := utils.NewSixID(), utils.NewSixID()
	a := conv(me, other, at(0))
	a.UpdatedAt = at(9)
	b := a
	b.UpdatedAt = time.Time{}
	b.LastMessageAt = at(10)
	b.LastMessageText = "reply"

	got := Merge([]models.Inquiry{a}, []models.Inquiry{b}, me)
	require.Len(t, got, 1)
	assert.Equal(t, "reply", got[0].LastMessageText)
}

func TestMerge_TiesBrokenByID(t *testing.T) {
	me, other := utils.NewSixID(), utils.NewSixID()
	x := conv(me, other, at(1))
	y := conv(me, other, at(1))
	x.ID = utils.SixID{0, 0, 0, 0, 0, 2}
	y.ID = utils.SixID{0, 0, 0, 0, 0, 1}

	got := Merge([]models.Inquiry{x, y}, nil, me)
	assert.Equal(t, []utils.SixID{y.ID, x.ID}, ids(got))
}

func TestMerge_Idempotent(t *testing.T) {
	me := utils.NewSixID()
	r := rand.New(rand.NewSource(7))
	var owner, requester []models.Inquiry
	for i := 0; i < 40; i++ {
		other := utils.NewSixID()
		c := conv(me, other, at(r.Intn(20)))
		if r.Intn(2) == 0 {
			c.UpdatedAt = at(r.Intn(30))
		}
		if r.Intn(3) == 0 {
			owner = append(owner, c)
		} else {
			requester = append(requester, c)
		}
		if r.Intn(4) == 0 {
			owner = append(owner, c)
		}
	}

	first := Merge(owner, requester, me)
	second := Merge(owner, requester, me)
	assert.Equal(t, ids(first), ids(second))

	// Feeding the result back in changes nothing either.
	assert.Equal(t, ids(first), ids(Merge(first, first, me)))
}

func TestMerge_VisibilityFilter(t *testing.T) {
	me, other, stranger := utils.NewSixID(), utils.NewSixID(), utils.NewSixID()

	visible := conv(me, other, at(1))
	hidden := conv(me, other, at(2))
	hidden.HiddenFor = []utils.SixID{me}
	hiddenForOther := conv(me, other, at(3))
	hiddenForOther.HiddenFor = []utils.SixID{other}
	notParticipant := conv(me, other, at(4))
	notParticipant.Participants = []utils.SixID{other, stranger}

	all := []models.Inquiry{visible, hidden, hiddenForOther, notParticipant}
	got := Merge(all, nil, me)
	assert.Equal(t, []utils.SixID{hiddenForOther.ID, visible.ID}, ids(got))

	for _, c := range all {
		listed := indexOf(got, c.ID) >= 0
		assert.Equal(t, Visible(&c, me), listed, c.ID.String())
	}
}

func TestUnreadCount(t *testing.T) {
	me, other := utils.NewSixID(), utils.NewSixID()
	a := conv(me, other, at(1))
	a.UnreadFor = []utils.SixID{me}
	b := conv(me, other, at(2))
	b.UnreadFor = []utils.SixID{other}
	c := conv(me, other, at(3))
	c.UnreadFor = []utils.SixID{me, other}
	hiddenUnread := conv(me, other, at(4))
	hiddenUnread.UnreadFor = []utils.SixID{me}
	hiddenUnread.HiddenFor = []utils.SixID{me}

	list := Merge([]models.Inquiry{a, b, c, hiddenUnread}, nil, me)
	assert.Equal(t, 2, UnreadCount(list, me))
	assert.Equal(t, 0, UnreadCount(nil, me))
}

func TestNormalize(t *testing.T) {
	owner, user := utils.NewSixID(), utils.NewSixID()
	raw := models.Inquiry{Base: models.NewBase(), OwnerID: &owner, UserID: &user}

	got := Normalize([]models.Inquiry{raw})
	require.Len(t, got, 1)
	assert.Equal(t, []utils.SixID{owner, user}, got[0].Participants)
	assert.NotNil(t, got[0].HiddenFor)
	assert.NotNil(t, got[0].UnreadFor)
	assert.True(t, EffectiveTime(&got[0]).IsZero(), "missing timestamps are not invented")
}

func TestParticipantsOf(t *testing.T) {
	a := utils.NewSixID()
	zero := utils.SixID{}
	assert.Equal(t, []utils.SixID{a}, ParticipantsOf(&a, nil))
	assert.Equal(t, []utils.SixID{a}, ParticipantsOf(&a, &a))
	assert.Equal(t, []utils.SixID{a}, ParticipantsOf(&zero, &a))
	assert.Empty(t, ParticipantsOf(nil, nil))
}

func TestPartnerNameAndPreview(t *testing.T) {
	owner, user := utils.NewSixID(), utils.NewSixID()
	c := conv(owner, user, at(0))
	c.UserName = "Buyer"
	c.Comment = "Is this available?"

	assert.Equal(t, "Buyer", PartnerName(&c, owner))
	assert.Equal(t, "Admin", PartnerName(&c, user))
	c.OwnerName = "Seller"
	assert.Equal(t, "Seller", PartnerName(&c, user))

	assert.Equal(t, "Is this available?", Preview(&c))
	c.LastMessageText = "Yes"
	assert.Equal(t, "Yes", Preview(&c))
}

func TestRows(t *testing.T) {
	owner, user := utils.NewSixID(), utils.NewSixID()
	a := conv(owner, user, at(1))
	a.UserName = "Buyer"
	a.Comment = "Still for sale?"
	a.UnreadFor = []utils.SixID{owner}
	b := conv(owner, user, at(0))
	b.LastMessageText = "Thanks"

	rows := Rows([]models.Inquiry{a, b}, owner)
	require.Len(t, rows, 2)
	assert.Equal(t, a.ID, rows[0].ID)
	assert.Equal(t, "Buyer", rows[0].PartnerName)
	assert.Equal(t, "Still for sale?", rows[0].Preview)
	assert.True(t, rows[0].Unread)
	assert.Equal(t, "Thanks", rows[1].Preview)
	assert.False(t, rows[1].Unread)
}
