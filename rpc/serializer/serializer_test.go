package serializer

import (
	"reflect"
	"testing"

	"github.com/ahaustein/cedar/lib/store"
	"github.com/ahaustein/cedar/rpc/common"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON":   NewJSONSerializer,
	"GOB":    NewGOBSerializer,
	"Binary": NewBinarySerializer,
}

// testMessages creates a set of test messages with different fields filled
func testMessages() []common.Message {
	return []common.Message{
		// Basic message with just a type
		{MsgType: common.MsgTSuccess},

		// Set request
		{
			MsgType: common.MsgTKVSet,
			Key:     "test-key",
			Value:   []byte("test-value"),
		},

		// Get response
		{
			MsgType: common.MsgTKVGet,
			Key:     "test-key",
			Value:   []byte("test-value"),
			Ok:      true,
		},

		// Error response
		{
			MsgType: common.MsgTError,
			Err:     "test error message",
		},

		// ZAdd request
		{
			MsgType: common.MsgTZAdd,
			Key:     "scores",
			Member:  "alice",
			Score:   12.5,
		},

		// ZQuery request with negative offset
		{
			MsgType: common.MsgTZQuery,
			Key:     "scores",
			Member:  "alice",
			Score:   12.5,
			Offset:  -3,
			Limit:   10,
		},

		// ZQuery response
		{
			MsgType: common.MsgTZQuery,
			Entries: []store.ScoredMember{
				{Member: "alice", Score: 12.5},
				{Member: "bob", Score: 13},
			},
		},

		// ZRank response
		{
			MsgType: common.MsgTZRank,
			Ok:      true,
			Count:   42,
		},

		// Keys response
		{
			MsgType: common.MsgTKVKeys,
			Keys:    []string{"a", "b", "c"},
		},
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message %d: %v", i, err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message %d: %v", i, err)
					continue
				}

				// Compare
				if !reflect.DeepEqual(msg, result) {
					t.Errorf("Message %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, msg, result)
				}
			}
		})
	}
}

// TestMessageTypes tests each message type with each serializer
func TestMessageTypes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			// Test each message type (don't test for MsgTUnknown since this should raise an error)
			for msgType := common.MsgTSuccess; msgType <= common.MsgTZQuery; msgType++ {
				msg := common.Message{MsgType: msgType}

				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message type %s: %v", msgType.String(), err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message type %s: %v", msgType.String(), err)
					continue
				}

				// Check type
				if result.MsgType != msgType {
					t.Errorf("Message type doesn't match after round trip: Expected %s, got %s",
						msgType.String(), result.MsgType.String())
				}
			}
		})
	}
}

// TestBinarySerializerSpecific tests specific edge cases for the binary serializer
func TestBinarySerializerSpecific(t *testing.T) {
	serializer := NewBinarySerializer()

	// Test cases for empty or zero values
	testCases := []struct {
		name string
		msg  common.Message
	}{
		{
			name: "Empty message",
			msg:  common.Message{},
		},
		{
			name: "Message with empty strings and zero values",
			msg: common.Message{
				MsgType: common.MsgTKVSet,
				Key:     "",
				Member:  "",
				Score:   0,
				Value:   []byte{},
				Ok:      false,
				Err:     "",
			},
		},
		{
			name: "Message with empty strings but Ok=true",
			msg: common.Message{
				MsgType: common.MsgTKVGet,
				Key:     "",
				Ok:      true,
				Value:   nil,
			},
		},
		{
			name: "Message with empty value slice but not nil",
			msg: common.Message{
				MsgType: common.MsgTKVSet,
				Key:     "test",
				Value:   []byte{},
			},
		},
		{
			name: "Message with negative offset",
			msg: common.Message{
				MsgType: common.MsgTZQuery,
				Key:     "scores",
				Offset:  -7,
				Limit:   1,
			},
		},
		{
			name: "Message with empty entry list but not nil",
			msg: common.Message{
				MsgType: common.MsgTZQuery,
				Entries: []store.ScoredMember{},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Serialize
			data, err := serializer.Serialize(tc.msg)
			if err != nil {
				t.Fatalf("Failed to serialize: %v", err)
			}

			// Deserialize
			var result common.Message
			err = serializer.Deserialize(data, &result)
			if err != nil {
				t.Fatalf("Failed to deserialize: %v", err)
			}

			// Verify scalar fields
			if tc.msg.Key != result.Key {
				t.Errorf("Key mismatch: expected '%s', got '%s'", tc.msg.Key, result.Key)
			}
			if tc.msg.Member != result.Member {
				t.Errorf("Member mismatch: expected '%s', got '%s'", tc.msg.Member, result.Member)
			}
			if tc.msg.Score != result.Score {
				t.Errorf("Score mismatch: expected %v, got %v", tc.msg.Score, result.Score)
			}
			if tc.msg.Offset != result.Offset {
				t.Errorf("Offset mismatch: expected %d, got %d", tc.msg.Offset, result.Offset)
			}
			if tc.msg.Limit != result.Limit {
				t.Errorf("Limit mismatch: expected %d, got %d", tc.msg.Limit, result.Limit)
			}
			if tc.msg.Ok != result.Ok {
				t.Errorf("Ok mismatch: expected %v, got %v", tc.msg.Ok, result.Ok)
			}
			if tc.msg.Count != result.Count {
				t.Errorf("Count mismatch: expected %d, got %d", tc.msg.Count, result.Count)
			}
			if tc.msg.Err != result.Err {
				t.Errorf("Err mismatch: expected '%s', got '%s'", tc.msg.Err, result.Err)
			}
			if tc.msg.MsgType != result.MsgType {
				t.Errorf("MsgType mismatch: expected %v, got %v", tc.msg.MsgType, result.MsgType)
			}

			// Special handling for slices that may be nil or empty
			if (tc.msg.Value == nil) != (result.Value == nil) {
				t.Errorf("Value nil/non-nil mismatch: expected %v, got %v", tc.msg.Value, result.Value)
			} else if !reflect.DeepEqual(tc.msg.Value, result.Value) {
				t.Errorf("Value mismatch: expected %v, got %v", tc.msg.Value, result.Value)
			}

			if (tc.msg.Keys == nil) != (result.Keys == nil) {
				t.Errorf("Keys nil/non-nil mismatch: expected %v, got %v", tc.msg.Keys, result.Keys)
			} else if !reflect.DeepEqual(tc.msg.Keys, result.Keys) {
				t.Errorf("Keys mismatch: expected %v, got %v", tc.msg.Keys, result.Keys)
			}

			if (tc.msg.Entries == nil) != (result.Entries == nil) {
				t.Errorf("Entries nil/non-nil mismatch: expected %v, got %v", tc.msg.Entries, result.Entries)
			} else if !reflect.DeepEqual(tc.msg.Entries, result.Entries) {
				t.Errorf("Entries mismatch: expected %v, got %v", tc.msg.Entries, result.Entries)
			}
		})
	}
}

// TestInvalidBinaryData tests how the binary serializer handles corrupt or invalid data
func TestInvalidBinaryData(t *testing.T) {
	serializer := NewBinarySerializer()

	testCases := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{
			name:        "Empty data",
			data:        []byte{},
			expectError: true,
		},
		{
			name:        "Too short header",
			data:        []byte{1, 0}, // Message type and half the flags
			expectError: true,
		},
		{
			name:        "Valid header only",
			data:        []byte{1, 0, 0}, // Message type 1, no flags
			expectError: false,
		},
		{
			name:        "Invalid length for key",
			data:        []byte{1, 0, 1, 0, 0, 0, 5, 'a', 'b', 'c'}, // Claims key length 5 but only 3 bytes provided
			expectError: true,
		},
		{
			name:        "Invalid length for value",
			data:        []byte{1, 0, 32, 0, 0, 0, 10}, // Claims value length 10 but no bytes provided
			expectError: true,
		},
		{
			name:        "Truncated entry list",
			data:        []byte{1, 2, 0, 0, 0, 0, 3}, // Claims three entries but no entry data
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var msg common.Message
			err := serializer.Deserialize(tc.data, &msg)

			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got: %v", err)
			}
		})
	}
}
