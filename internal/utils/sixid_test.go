package utils

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestSixID_StringRoundTrip(t *testing.T) {
	id := SixID{1, 2, 3, 4, 5, 6}
	s := id.String()
	require.Len(t, s, 10)

	parsed, err := ParseSixID(s)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	lower, err := ParseSixID(strings.ToLower(s))
	require.NoError(t, err)
	assert.Equal(t, id, lower)
}

func TestParseSixID_Invalid(t *testing.T) {
	_, err := ParseSixID("short")
	assert.Error(t, err)
	_, err = ParseSixID("UUUUUUUUUU")
	assert.Error(t, err)

	zero, err := ParseSixID("")
	assert.NoError(t, err)
	assert.True(t, zero.IsZero())
}

func TestSixID_BSONBinary(t *testing.T) {
	type doc struct {
		ID    SixID  `bson:"_id"`
		Owner *SixID `bson:"owner,omitempty"`
	}
	in := doc{ID: NewSixID()}
	raw, err := bson.Marshal(in)
	require.NoError(t, err)

	val := bson.Raw(raw).Lookup("_id")
	subtype, data := val.Binary()
	assert.Equal(t, byte(0x80), subtype)
	assert.Equal(t, in.ID[:], data)
	_, err = bson.Raw(raw).LookupErr("owner")
	assert.Error(t, err, "nil pointer must be omitted")

	var out doc
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.Equal(t, in.ID, out.ID)
}

func TestSixID_JSON(t *testing.T) {
	id := NewSixID()
	b, err := json.Marshal(map[string]SixID{"id": id})
	require.NoError(t, err)

	var out map[string]SixID
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, id, out["id"])
}
