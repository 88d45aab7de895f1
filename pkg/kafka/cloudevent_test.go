package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudEvent_ParseRoundTrip(t *testing.T) {
	ce, err := NewCloudEvent("service-pethotel", "booking.reserved", map[string]int64{"booking_id": 12})
	require.NoError(t, err)

	raw, err := json.Marshal(ce)
	require.NoError(t, err)

	parsed, err := ParseCloudEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "booking.reserved", parsed.Type)
	assert.Equal(t, "1.0", parsed.SpecVersion)

	var data struct {
		BookingID int64 `json:"booking_id"`
	}
	require.NoError(t, parsed.ParseData(&data))
	assert.Equal(t, int64(12), data.BookingID)
}

func TestParseCloudEvent_RejectsUntyped(t *testing.T) {
	_, err := ParseCloudEvent([]byte(`{"id":"x"}`))
	assert.Error(t, err)

	_, err = ParseCloudEvent([]byte(`not json`))
	assert.Error(t, err)
}
