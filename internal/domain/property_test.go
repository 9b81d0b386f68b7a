package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalNumberAndString(t *testing.T) {
	var p Property
	require.NoError(t, json.Unmarshal([]byte(`{"ID": 7}`), &p))
	require.Equal(t, ID("7"), p.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"ID": "12"}`), &p))
	require.Equal(t, ID("12"), p.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"ID": null}`), &p))
	require.Equal(t, ID(""), p.ID)
}

func TestPrice_UnmarshalNumberAndString(t *testing.T) {
	var p Property
	require.NoError(t, json.Unmarshal([]byte(`{"Price": 1250000}`), &p))
	require.Equal(t, "$1,250,000", p.Price.String())

	require.NoError(t, json.Unmarshal([]byte(`{"Price": "AED 2.4M"}`), &p))
	require.Equal(t, "AED 2.4M", p.Price.String())

	require.NoError(t, json.Unmarshal([]byte(`{"Price": null}`), &p))
	require.Equal(t, "Price on request", p.Price.String())
}

func TestPrice_MarshalRoundTrip(t *testing.T) {
	raw, err := json.Marshal(Price{Number: 990000})
	require.NoError(t, err)
	require.Equal(t, "990000", string(raw))

	raw, err = json.Marshal(Price{Text: "POA"})
	require.NoError(t, err)
	require.Equal(t, `"POA"`, string(raw))
}

func TestImageList_FallsBackOnBadPayload(t *testing.T) {
	p := Property{Images: "not json"}
	require.Len(t, p.ImageList(), 1)

	p.Images = `["a.jpg","b.jpg"]`
	require.Equal(t, []string{"a.jpg", "b.jpg"}, p.ImageList())

	p.Images = `[]`
	require.Len(t, p.ImageList(), 1)
}

func TestAmenityList_DropsBlanks(t *testing.T) {
	p := Property{Amenities: "Pool\n\n  Gym \nParking"}
	require.Equal(t, []string{"Pool", "Gym", "Parking"}, p.AmenityList())
}

func TestMessage_ToChatMessageStripsOptions(t *testing.T) {
	msg := NewAssistantMessage("Please select an option:")
	msg.Options = []string{"Buy", "Rent"}
	require.True(t, msg.HasOptions())
	require.Equal(t, ChatMessage{Role: RoleAssistant, Content: "Please select an option:"}, msg.ToChatMessage())
}
