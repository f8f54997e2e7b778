package images

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Layouts accepted when reading a Timestamp attribute, newest first. Older
// writers stored naive "YYYY-MM-DD HH:MM:SS[.ffffff]" strings, read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// Timestamp is the creation time of a record. Values written by this
// package are RFC 3339 strings in UTC. A stored value in no known layout is
// kept verbatim in Raw with a zero Time.
type Timestamp struct {
	time.Time
	Raw string
}

// NewTimestamp wraps t, normalized to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// ParseTimestamp reads s in any accepted layout. It never fails: unparsed
// input ends up in Raw.
func ParseTimestamp(s string) Timestamp {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t.UTC()}
		}
	}
	return Timestamp{Raw: s}
}

// String renders the time as RFC 3339, or the raw stored value.
func (t Timestamp) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	if t.Time.IsZero() {
		return ""
	}
	return t.Time.Format(time.RFC3339)
}

func (t Timestamp) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	if t.Raw != "" {
		return &types.AttributeValueMemberS{Value: t.Raw}, nil
	}
	return &types.AttributeValueMemberS{Value: t.Time.UTC().Format(time.RFC3339Nano)}, nil
}

func (t *Timestamp) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		*t = ParseTimestamp(v.Value)
	case *types.AttributeValueMemberN:
		// Epoch seconds.
		secs, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			*t = Timestamp{Raw: v.Value}
			return nil
		}
		whole := int64(secs)
		*t = Timestamp{Time: time.Unix(whole, int64((secs-float64(whole))*1e9)).UTC()}
	case *types.AttributeValueMemberNULL, nil:
		*t = Timestamp{}
	default:
		return fmt.Errorf("timestamp: unsupported attribute type %T", av)
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Raw != "" {
		return json.Marshal(t.Raw)
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseTimestamp(s)
	return nil
}
