package common

import (
	"encoding/json"
	"fmt"

	"github.com/ahaustein/cedar/lib/store"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	Key    string  `json:"key,omitempty"`    // Used for: all keyed operations
	Member string  `json:"member,omitempty"` // Used for: sorted-set operations
	Score  float64 `json:"score,omitempty"`  // Used for: ZAdd, ZQuery requests, ZScore responses
	Offset int64   `json:"offset,omitempty"` // Used for: ZQuery requests
	Limit  int64   `json:"limit,omitempty"`  // Used for: ZQuery requests
	Value  []byte  `json:"value,omitempty"`  // Used for: Set (request), Get (response)

	// Response only fields
	Ok      bool                 `json:"ok,omitempty"`      // Used for: Get, Has, Delete, ZAdd, ZScore, ZRem, ZRank responses
	Count   int64                `json:"count,omitempty"`   // Used for: ZRank, ZCard responses
	Keys    []string             `json:"keys,omitempty"`    // Used for: Keys responses
	Entries []store.ScoredMember `json:"entries,omitempty"` // Used for: ZQuery responses
	Err     string               `json:"err,omitempty"`     // Empty if no error, otherwise contains the error message
}

// --------------------------------------------------------------------------
// Message Factory Functions - plain keys
// --------------------------------------------------------------------------

// NewSetRequest creates a new Set request
func NewSetRequest(key string, value []byte) *Message {
	return &Message{
		MsgType: MsgTKVSet,
		Key:     key,
		Value:   value,
	}
}

// NewSetResponse creates a new Set response
func NewSetResponse(err error) *Message {
	msg := &Message{
		MsgType: MsgTKVSet,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewGetRequest creates a new Get request
func NewGetRequest(key string) *Message {
	return &Message{
		MsgType: MsgTKVGet,
		Key:     key,
	}
}

// NewGetResponse creates a new Get response
func NewGetResponse(value []byte, ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTKVGet,
		Ok:      ok,
		Value:   value,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewDeleteRequest creates a new Delete request
func NewDeleteRequest(key string) *Message {
	return &Message{
		MsgType: MsgTKVDelete,
		Key:     key,
	}
}

// NewDeleteResponse creates a new Delete response; ok reports whether the
// key was present
func NewDeleteResponse(removed bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTKVDelete,
		Ok:      removed,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewHasRequest creates a new Has request
func NewHasRequest(key string) *Message {
	return &Message{
		MsgType: MsgTKVHas,
		Key:     key,
	}
}

// NewHasResponse creates a new Has response
func NewHasResponse(ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTKVHas,
		Ok:      ok,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewKeysRequest creates a new Keys request
func NewKeysRequest() *Message {
	return &Message{
		MsgType: MsgTKVKeys,
	}
}

// NewKeysResponse creates a new Keys response
func NewKeysResponse(keys []string, err error) *Message {
	msg := &Message{
		MsgType: MsgTKVKeys,
		Keys:    keys,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// --------------------------------------------------------------------------
// Message Factory Functions - sorted sets
// --------------------------------------------------------------------------

// NewZAddRequest creates a new ZAdd request
func NewZAddRequest(key, member string, score float64) *Message {
	return &Message{
		MsgType: MsgTZAdd,
		Key:     key,
		Member:  member,
		Score:   score,
	}
}

// NewZAddResponse creates a new ZAdd response; ok reports whether a new
// member was inserted rather than updated
func NewZAddResponse(inserted bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTZAdd,
		Ok:      inserted,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewZScoreRequest creates a new ZScore request
func NewZScoreRequest(key, member string) *Message {
	return &Message{
		MsgType: MsgTZScore,
		Key:     key,
		Member:  member,
	}
}

// NewZScoreResponse creates a new ZScore response
func NewZScoreResponse(score float64, ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTZScore,
		Score:   score,
		Ok:      ok,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewZRemRequest creates a new ZRem request
func NewZRemRequest(key, member string) *Message {
	return &Message{
		MsgType: MsgTZRem,
		Key:     key,
		Member:  member,
	}
}

// NewZRemResponse creates a new ZRem response
func NewZRemResponse(removed bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTZRem,
		Ok:      removed,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewZRankRequest creates a new ZRank request
func NewZRankRequest(key, member string) *Message {
	return &Message{
		MsgType: MsgTZRank,
		Key:     key,
		Member:  member,
	}
}

// NewZRankResponse creates a new ZRank response
func NewZRankResponse(rank int64, ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTZRank,
		Count:   rank,
		Ok:      ok,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewZCardRequest creates a new ZCard request
func NewZCardRequest(key string) *Message {
	return &Message{
		MsgType: MsgTZCard,
		Key:     key,
	}
}

// NewZCardResponse creates a new ZCard response
func NewZCardResponse(count int64, err error) *Message {
	msg := &Message{
		MsgType: MsgTZCard,
		Count:   count,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewZQueryRequest creates a new ZQuery request
func NewZQueryRequest(key string, score float64, member string, offset, limit int64) *Message {
	return &Message{
		MsgType: MsgTZQuery,
		Key:     key,
		Member:  member,
		Score:   score,
		Offset:  offset,
		Limit:   limit,
	}
}

// NewZQueryResponse creates a new ZQuery response
func NewZQueryResponse(entries []store.ScoredMember, err error) *Message {
	msg := &Message{
		MsgType: MsgTZQuery,
		Entries: entries,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTKVSet:
		return "set"
	case MsgTKVGet:
		return "get"
	case MsgTKVDelete:
		return "delete"
	case MsgTKVHas:
		return "has"
	case MsgTKVKeys:
		return "keys"
	case MsgTZAdd:
		return "zadd"
	case MsgTZScore:
		return "zscore"
	case MsgTZRem:
		return "zrem"
	case MsgTZRank:
		return "zrank"
	case MsgTZCard:
		return "zcard"
	case MsgTZQuery:
		return "zquery"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	// Convert string back to MessageType
	switch s {
	case "set":
		*t = MsgTKVSet
	case "get":
		*t = MsgTKVGet
	case "delete":
		*t = MsgTKVDelete
	case "has":
		*t = MsgTKVHas
	case "keys":
		*t = MsgTKVKeys
	case "zadd":
		*t = MsgTZAdd
	case "zscore":
		*t = MsgTZScore
	case "zrem":
		*t = MsgTZRem
	case "zrank":
		*t = MsgTZRank
	case "zcard":
		*t = MsgTZCard
	case "zquery":
		*t = MsgTZQuery
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// Plain key-value operations

	MsgTKVSet    // Set a key-value pair
	MsgTKVGet    // Get a value by key
	MsgTKVDelete // Delete a key of any type
	MsgTKVHas    // Check if a key exists
	MsgTKVKeys   // List all keys in the store

	// Sorted-set operations

	MsgTZAdd   // Insert or update a scored member
	MsgTZScore // Get the score of a member
	MsgTZRem   // Remove a single member
	MsgTZRank  // Get the ascending rank of a member
	MsgTZCard  // Get the cardinality of a set
	MsgTZQuery // Range query from a (score, member) seek point
)
