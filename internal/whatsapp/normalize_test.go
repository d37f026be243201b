package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const businessID = "109876543210000"

func TestParseEventsTextMessage(t *testing.T) {
	raw := []byte(`{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "WBA_ID",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {"display_phone_number": "5511236293600", "phone_number_id": "109876543210000"},
					"messages": [{
						"id": "wamid.ABC",
						"from": "5511999990000",
						"timestamp": "1700000000",
						"type": "text",
						"text": {"body": "  Olá!  "}
					}]
				}
			}]
		}]
	}`)

	events := ParseEvents(raw, businessID)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "wamid.ABC", ev.MessageID)
	assert.Equal(t, "5511999990000", ev.SenderID)
	assert.Equal(t, "5511236293600", ev.TargetID)
	assert.Equal(t, KindText, ev.Kind)
	assert.Equal(t, "Olá!", ev.Text)
	assert.Equal(t, int64(1700000000), ev.ReceivedAt.Unix())
}

func TestParseEventsInteractiveReplies(t *testing.T) {
	raw := []byte(`{
		"entry": [{
			"changes": [{
				"value": {
					"metadata": {"phone_number_id": "109876543210000"},
					"messages": [
						{
							"id": "wamid.BTN",
							"from": "551188887777",
							"type": "interactive",
							"interactive": {"type": "button_reply", "button_reply": {"id": "opt_1", "title": " Agendar "}}
						},
						{
							"id": "wamid.LST",
							"from": "551188887777",
							"type": "interactive",
							"interactive": {"type": "list_reply", "list_reply": {"id": "opt_2", "title": "Valores"}}
						}
					]
				}
			}]
		}]
	}`)

	events := ParseEvents(raw, businessID)
	require.Len(t, events, 2)

	assert.Equal(t, KindInteractiveButton, events[0].Kind)
	assert.Equal(t, "Agendar", events[0].Text)
	assert.Equal(t, KindInteractiveList, events[1].Kind)
	assert.Equal(t, "Valores", events[1].Text)
}

func TestParseEventsOtherKind(t *testing.T) {
	raw := []byte(`{
		"entry": [{"changes": [{"value": {
			"metadata": {"phone_number_id": "109876543210000"},
			"messages": [{"id": "wamid.IMG", "from": "551177776666", "type": "image"}]
		}}]}]
	}`)

	events := ParseEvents(raw, businessID)
	require.Len(t, events, 1)
	assert.Equal(t, KindOther, events[0].Kind)
	assert.Empty(t, events[0].Text)
}

func TestParseEventsSkipsStatusUpdates(t *testing.T) {
	raw := []byte(`{
		"entry": [{"changes": [{"value": {
			"metadata": {"phone_number_id": "109876543210000"},
			"statuses": [{"id": "wamid.ABC", "status": "delivered", "recipient_id": "5511999990000"}]
		}}]}]
	}`)

	assert.Empty(t, ParseEvents(raw, businessID))
}

func TestParseEventsTenantFilter(t *testing.T) {
	raw := []byte(`{
		"entry": [{"changes": [{"value": {
			"metadata": {"phone_number_id": "someone-elses-number"},
			"messages": [{"id": "wamid.X", "from": "551166665555", "type": "text", "text": {"body": "oi"}}]
		}}]}]
	}`)

	assert.Empty(t, ParseEvents(raw, businessID))

	// No configured business id disables the filter.
	assert.Len(t, ParseEvents(raw, ""), 1)
}

func TestParseEventsBatchedEntries(t *testing.T) {
	raw := []byte(`{
		"entry": [
			{"changes": [{"value": {
				"metadata": {"phone_number_id": "109876543210000"},
				"messages": [{"id": "wamid.1", "from": "55111", "type": "text", "text": {"body": "um"}}]
			}}]},
			{"changes": [
				{"value": {
					"metadata": {"phone_number_id": "109876543210000"},
					"messages": [{"id": "wamid.2", "from": "55112", "type": "text", "text": {"body": "dois"}}]
				}},
				{"value": {
					"metadata": {"phone_number_id": "109876543210000"},
					"statuses": [{"id": "wamid.1", "status": "read"}]
				}}
			]}
		]
	}`)

	events := ParseEvents(raw, businessID)
	require.Len(t, events, 2)
	assert.Equal(t, "um", events[0].Text)
	assert.Equal(t, "dois", events[1].Text)
}

func TestParseEventsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "not even json"},
		{"empty body", ""},
		{"empty object", "{}"},
		{"entry wrong type", `{"entry": "nope"}`},
		{"missing changes", `{"entry": [{}]}`},
		{"missing value", `{"entry": [{"changes": [{}]}]}`},
		{"message without sender", `{"entry": [{"changes": [{"value": {"messages": [{"id": "wamid.X", "type": "text"}]}}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ParseEvents([]byte(tt.raw), businessID))
		})
	}
}
