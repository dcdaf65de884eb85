package serializer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ahaustein/cedar/lib/store"
	"github.com/ahaustein/cedar/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasKey     uint16 = 1 << 0
	hasMember  uint16 = 1 << 1
	hasScore   uint16 = 1 << 2
	hasOffset  uint16 = 1 << 3
	hasLimit   uint16 = 1 << 4
	hasValue   uint16 = 1 << 5
	hasOk      uint16 = 1 << 6
	hasCount   uint16 = 1 << 7
	hasKeys    uint16 = 1 << 8
	hasEntries uint16 = 1 << 9
	hasErr     uint16 = 1 << 10
)

// header layout: 1 byte MsgType + 2 bytes flags
const headerSize = 3

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	// Calculate total size needed
	totalSize := b.sizeBytes(msg)
	result := make([]byte, totalSize)

	// Write message type
	result[0] = byte(msg.MsgType)

	// Initialize flags
	var flags uint16 = 0

	// Set position for writing
	pos := headerSize

	// Handle Key
	if msg.Key != "" {
		flags |= hasKey
		pos = writeString(result, pos, msg.Key)
	}

	// Handle Member
	if msg.Member != "" {
		flags |= hasMember
		pos = writeString(result, pos, msg.Member)
	}

	// Handle Score
	if msg.Score != 0 {
		flags |= hasScore
		binary.BigEndian.PutUint64(result[pos:pos+8], math.Float64bits(msg.Score))
		pos += 8
	}

	// Handle Offset
	if msg.Offset != 0 {
		flags |= hasOffset
		binary.BigEndian.PutUint64(result[pos:pos+8], uint64(msg.Offset))
		pos += 8
	}

	// Handle Limit
	if msg.Limit != 0 {
		flags |= hasLimit
		binary.BigEndian.PutUint64(result[pos:pos+8], uint64(msg.Limit))
		pos += 8
	}

	// Handle Value
	if msg.Value != nil {
		flags |= hasValue
		valueLen := len(msg.Value)

		// Write value length
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(valueLen))
		pos += 4

		// Write value data
		if valueLen > 0 {
			copy(result[pos:pos+valueLen], msg.Value)
			pos += valueLen
		}
	}

	// Handle Ok
	if msg.Ok {
		flags |= hasOk
		result[pos] = 1
		pos += 1
	}

	// Handle Count
	if msg.Count != 0 {
		flags |= hasCount
		binary.BigEndian.PutUint64(result[pos:pos+8], uint64(msg.Count))
		pos += 8
	}

	// Handle Keys
	if msg.Keys != nil {
		flags |= hasKeys
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Keys)))
		pos += 4
		for _, k := range msg.Keys {
			pos = writeString(result, pos, k)
		}
	}

	// Handle Entries
	if msg.Entries != nil {
		flags |= hasEntries
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Entries)))
		pos += 4
		for _, e := range msg.Entries {
			pos = writeString(result, pos, e.Member)
			binary.BigEndian.PutUint64(result[pos:pos+8], math.Float64bits(e.Score))
			pos += 8
		}
	}

	// Handle Err
	if msg.Err != "" {
		flags |= hasErr
		pos = writeString(result, pos, msg.Err)
	}

	// Set flags after knowing which fields are present
	binary.BigEndian.PutUint16(result[1:3], flags)

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < headerSize {
		return fmt.Errorf("data too short for message header")
	}

	// Read message type
	msg.MsgType = common.MessageType(data[0])

	// Read flags
	flags := binary.BigEndian.Uint16(data[1:3])

	// Initialize read position
	pos := headerSize
	var err error

	// Read Key if present
	if flags&hasKey != 0 {
		if msg.Key, pos, err = readString(data, pos, "key"); err != nil {
			return err
		}
	} else {
		msg.Key = ""
	}

	// Read Member if present
	if flags&hasMember != 0 {
		if msg.Member, pos, err = readString(data, pos, "member"); err != nil {
			return err
		}
	} else {
		msg.Member = ""
	}

	// Read Score if present
	if flags&hasScore != 0 {
		if pos+8 > len(data) {
			return fmt.Errorf("data too short for score")
		}

		msg.Score = math.Float64frombits(binary.BigEndian.Uint64(data[pos : pos+8]))
		pos += 8
	} else {
		msg.Score = 0
	}

	// Read Offset if present
	if flags&hasOffset != 0 {
		if pos+8 > len(data) {
			return fmt.Errorf("data too short for offset")
		}

		msg.Offset = int64(binary.BigEndian.Uint64(data[pos : pos+8]))
		pos += 8
	} else {
		msg.Offset = 0
	}

	// Read Limit if present
	if flags&hasLimit != 0 {
		if pos+8 > len(data) {
			return fmt.Errorf("data too short for limit")
		}

		msg.Limit = int64(binary.BigEndian.Uint64(data[pos : pos+8]))
		pos += 8
	} else {
		msg.Limit = 0
	}

	// Read Value if present
	if flags&hasValue != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for value length")
		}

		// Read value length
		valueLen := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4

		if pos+int(valueLen) > len(data) {
			return fmt.Errorf("data too short for value data")
		}

		// Read value data - reuse the buffer if it is large enough
		if msg.Value == nil || cap(msg.Value) < int(valueLen) {
			msg.Value = make([]byte, valueLen)
		} else {
			msg.Value = msg.Value[:valueLen]
		}

		if valueLen > 0 {
			copy(msg.Value, data[pos:pos+int(valueLen)])
		}
		pos += int(valueLen)
	} else {
		msg.Value = nil
	}

	// Read Ok if present
	if flags&hasOk != 0 {
		if pos+1 > len(data) {
			return fmt.Errorf("data too short for Ok flag")
		}

		msg.Ok = data[pos] != 0
		pos += 1
	} else {
		msg.Ok = false
	}

	// Read Count if present
	if flags&hasCount != 0 {
		if pos+8 > len(data) {
			return fmt.Errorf("data too short for count")
		}

		msg.Count = int64(binary.BigEndian.Uint64(data[pos : pos+8]))
		pos += 8
	} else {
		msg.Count = 0
	}

	// Read Keys if present
	if flags&hasKeys != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for keys count")
		}

		count := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4

		msg.Keys = make([]string, count)
		for i := range msg.Keys {
			if msg.Keys[i], pos, err = readString(data, pos, "keys entry"); err != nil {
				return err
			}
		}
	} else {
		msg.Keys = nil
	}

	// Read Entries if present
	if flags&hasEntries != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for entries count")
		}

		count := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4

		msg.Entries = make([]store.ScoredMember, count)
		for i := range msg.Entries {
			if msg.Entries[i].Member, pos, err = readString(data, pos, "entry member"); err != nil {
				return err
			}
			if pos+8 > len(data) {
				return fmt.Errorf("data too short for entry score")
			}
			msg.Entries[i].Score = math.Float64frombits(binary.BigEndian.Uint64(data[pos : pos+8]))
			pos += 8
		}
	} else {
		msg.Entries = nil
	}

	// Read Err if present
	if flags&hasErr != 0 {
		if msg.Err, _, err = readString(data, pos, "error"); err != nil {
			return err
		}
	} else {
		msg.Err = ""
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// writeString writes a 4-byte length prefix followed by the string bytes
// and returns the new write position
func writeString(buf []byte, pos int, s string) int {
	binary.BigEndian.PutUint32(buf[pos:pos+4], uint32(len(s)))
	pos += 4
	copy(buf[pos:pos+len(s)], s)
	return pos + len(s)
}

// readString reads a 4-byte length prefix followed by the string bytes
// and returns the string and the new read position
func readString(data []byte, pos int, what string) (string, int, error) {
	if pos+4 > len(data) {
		return "", pos, fmt.Errorf("data too short for %s length", what)
	}

	strLen := binary.BigEndian.Uint32(data[pos : pos+4])
	pos += 4

	if pos+int(strLen) > len(data) {
		return "", pos, fmt.Errorf("data too short for %s data", what)
	}

	s := string(data[pos : pos+int(strLen)])
	return s, pos + int(strLen), nil
}

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	size := headerSize

	// Add sizes for fields that require length encoding
	if msg.Key != "" {
		size += 4 + len(msg.Key) // 4 bytes for length + key string
	}
	if msg.Member != "" {
		size += 4 + len(msg.Member)
	}
	if msg.Score != 0 {
		size += 8 // float64 bits
	}
	if msg.Offset != 0 {
		size += 8 // int64
	}
	if msg.Limit != 0 {
		size += 8 // int64
	}
	if msg.Value != nil {
		size += 4 + len(msg.Value) // 4 bytes for length + value bytes
	}
	if msg.Ok {
		size += 1 // 1 byte for boolean
	}
	if msg.Count != 0 {
		size += 8 // int64
	}
	if msg.Keys != nil {
		size += 4 // element count
		for _, k := range msg.Keys {
			size += 4 + len(k)
		}
	}
	if msg.Entries != nil {
		size += 4 // element count
		for _, e := range msg.Entries {
			size += 4 + len(e.Member) + 8
		}
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err) // 4 bytes for length + error string
	}

	return size
}
