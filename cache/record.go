package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Record is the persisted unit for one final cache key.
type Record struct {
	// Timestamp is when the record was written, with millisecond precision.
	Timestamp time.Time

	// Content is the fetched payload as a JSON tree. It may be null.
	Content Value
}

// NewRecord creates a record stamped with now, truncated to milliseconds.
func NewRecord(now time.Time, content Value) Record {
	return Record{
		Timestamp: time.UnixMilli(now.UnixMilli()),
		Content:   content,
	}
}

// Age returns how old the record is at now.
func (r Record) Age(now time.Time) time.Duration {
	return now.Sub(r.Timestamp)
}

// EncodeRecord serializes r as {"timestamp": <epoch millis>, "content": <tree>}.
// A content tree that cannot be serialized yields an error wrapping ErrEncode.
func EncodeRecord(r Record) ([]byte, error) {
	content, err := r.Content.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(content) + 40)
	fmt.Fprintf(&buf, `{"timestamp":%d,"content":`, r.Timestamp.UnixMilli())
	buf.Write(content)
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// DecodeRecord parses bytes written by EncodeRecord. Malformed input and
// missing fields yield an error wrapping ErrCorruptRecord.
func DecodeRecord(data []byte) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Record{}, corrupt("%v", err)
	}
	if fields == nil {
		return Record{}, corrupt("record is null")
	}

	rawTS, ok := fields["timestamp"]
	if !ok {
		return Record{}, corrupt("missing timestamp")
	}
	var millis int64
	if err := json.Unmarshal(rawTS, &millis); err != nil {
		return Record{}, corrupt("timestamp: %v", err)
	}

	rawContent, ok := fields["content"]
	if !ok {
		return Record{}, corrupt("missing content")
	}
	content, err := ParseValue(rawContent)
	if err != nil {
		return Record{}, corrupt("content: %v", err)
	}

	return Record{
		Timestamp: time.UnixMilli(millis),
		Content:   content,
	}, nil
}
