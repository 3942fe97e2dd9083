package utils

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// SixIDHookFunc lets tests force the next generated id.
type SixIDHookFunc func() (id SixID, override bool)

// NewSixIDHook is consulted by NewSixID when set.
var NewSixIDHook SixIDHookFunc

// sixIDSubtype is the user-defined BSON binary subtype ids are stored under.
const sixIDSubtype byte = 0x80

// SixID is a 6-byte random identifier. It is stored as BSON binary (subtype 0x80)
// and rendered as 10 Crockford base32 characters everywhere else.
type SixID [6]byte

// NewSixID creates a random SixID.
func NewSixID() SixID {
	if NewSixIDHook != nil {
		if id, override := NewSixIDHook(); override {
			return id
		}
	}

	var id SixID
	if _, err := rand.Read(id[:]); err != nil {
		return SixID{}
	}
	return id
}

// IsZero reports whether the id is unset. The BSON encoder uses it for omitempty.
func (u SixID) IsZero() bool {
	return u == SixID{}
}

// ParseSixID parses the Crockford base32 representation. The empty string yields the zero id.
func ParseSixID(s string) (SixID, error) {
	if s == "" {
		return SixID{}, nil
	}

	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	if len(s) != 10 {
		return SixID{}, errors.New("invalid id: length must be 10")
	}

	var bits uint64
	var offset uint
	var id SixID
	n := 0
	for i := 0; i < len(s); i++ {
		val, ok := crockfordDecodeMap[s[i]]
		if !ok {
			return SixID{}, fmt.Errorf("invalid id: bad character %q", s[i])
		}
		bits |= uint64(val) << offset
		offset += 5
		for offset >= 8 && n < len(id) {
			id[n] = byte(bits & 0xFF)
			n++
			bits >>= 8
			offset -= 8
		}
	}
	if n != len(id) {
		return SixID{}, errors.New("invalid id: could not decode 6 bytes")
	}
	return id, nil
}

// MustParseSixID is ParseSixID for literals in tests and fixtures.
func MustParseSixID(s string) SixID {
	id, err := ParseSixID(s)
	if err != nil {
		panic(err)
	}
	return id
}

const crockfordAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var crockfordDecodeMap map[byte]byte

func init() {
	crockfordDecodeMap = make(map[byte]byte, 40)
	for i := 0; i < len(crockfordAlphabet); i++ {
		c := crockfordAlphabet[i]
		crockfordDecodeMap[c] = byte(i)
		if c >= 'A' && c <= 'Z' {
			crockfordDecodeMap[c+('a'-'A')] = byte(i)
		}
	}
	// Commonly confused characters
	crockfordDecodeMap['O'] = 0
	crockfordDecodeMap['o'] = 0
	crockfordDecodeMap['I'] = 1
	crockfordDecodeMap['i'] = 1
	crockfordDecodeMap['L'] = 1
	crockfordDecodeMap['l'] = 1
}

// String returns the 10-character Crockford base32 form.
func (u SixID) String() string {
	result := make([]byte, 0, 10)
	var bits, offset uint
	for i := 0; i < len(u); i++ {
		bits |= uint(u[i]) << offset
		offset += 8
		for offset >= 5 {
			result = append(result, crockfordAlphabet[bits&0x1F])
			bits >>= 5
			offset -= 5
		}
	}
	if offset > 0 {
		result = append(result, crockfordAlphabet[bits&0x1F])
	}
	return string(result)
}

// MarshalBSONValue stores the id as binary subtype 0x80.
func (u SixID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bsontype.Binary, bsoncore.AppendBinary(nil, sixIDSubtype, u[:]), nil
}

// UnmarshalBSONValue accepts binary subtype 0x80 of length 6. Null decodes to the zero id.
func (u *SixID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*u = SixID{}
		return nil
	case bsontype.Binary:
		subtype, bin, _, ok := bsoncore.ReadBinary(data)
		if !ok {
			return errors.New("invalid BSON binary for SixID")
		}
		if subtype != sixIDSubtype || len(bin) != len(u) {
			return fmt.Errorf("invalid BSON binary for SixID: subtype %#x, length %d", subtype, len(bin))
		}
		copy(u[:], bin)
		return nil
	default:
		return fmt.Errorf("invalid BSON type for SixID: %s", t)
	}
}

// MarshalJSON renders the id as a JSON string.
func (u SixID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON parses a JSON string id.
func (u *SixID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseSixID(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// ContainsSixID reports whether ids holds id.
func ContainsSixID(ids []SixID, id SixID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
