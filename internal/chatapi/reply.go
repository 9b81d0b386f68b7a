package chatapi

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"righthome-agent/internal/domain"
)

// optionPrompt is the fixed content of a synthesized options message.
const optionPrompt = "Please select an option:"

// minMapOptions is the threshold below which a decoded options map is
// assumed to have collapsed duplicate keys upstream, triggering the
// raw-text recovery path.
const minMapOptions = 4

// Reply is the shape-tolerant response record of the chat endpoint. All
// fields are optional; Options may arrive as a string, an array, or a
// keyed map. The raw body is retained for the options recovery path.
type Reply struct {
	Chatbot          string            `json:"Chatbot"`
	FollowUpQuestion string            `json:"Follow-Up Question"`
	Options          json.RawMessage   `json:"Options"`
	Properties       []domain.Property `json:"properties"`
	FollowUpMessage  string            `json:"followupMessage"`

	raw []byte
}

// Raw returns the response body the reply was decoded from.
func (r *Reply) Raw() []byte { return r.raw }

// Normalize builds the pending message batch from a reply, in the fixed
// priority order: primary reply, follow-up question, options message,
// then (only when no properties were delivered) the standalone follow-up
// message. The returned properties, when non-nil, replace the active set
// wholesale.
func Normalize(r *Reply) ([]domain.Message, []domain.Property) {
	if r == nil {
		return nil, nil
	}

	var batch []domain.Message

	if strings.TrimSpace(r.Chatbot) != "" {
		batch = append(batch, domain.NewAssistantMessage(r.Chatbot))
	}
	if strings.TrimSpace(r.FollowUpQuestion) != "" {
		batch = append(batch, domain.NewAssistantMessage(r.FollowUpQuestion))
	}

	if options := normalizeOptions(r.Options, r.raw); len(options) > 0 {
		msg := domain.NewAssistantMessage(optionPrompt)
		msg.Options = options
		batch = append(batch, msg)
	}

	if r.Properties != nil {
		return batch, r.Properties
	}
	if strings.TrimSpace(r.FollowUpMessage) != "" {
		batch = append(batch, domain.NewAssistantMessage(r.FollowUpMessage))
	}
	return batch, nil
}

// normalizeOptions flattens the three wire shapes of the Options field
// into an ordered option list. A keyed map with fewer than minMapOptions
// values is treated as a collapsed duplicate-key payload and recovered
// from the raw body; an empty recovery means no options at all.
func normalizeOptions(opts json.RawMessage, raw []byte) []string {
	if len(opts) == 0 || string(opts) == "null" {
		return nil
	}

	var asString string
	if err := json.Unmarshal(opts, &asString); err == nil {
		return splitOptionLines(asString)
	}

	var asList []string
	if err := json.Unmarshal(opts, &asList); err == nil {
		return asList
	}

	var asMap map[string]string
	if err := json.Unmarshal(opts, &asMap); err == nil {
		values := mapValuesInKeyOrder(asMap)
		if len(values) >= minMapOptions {
			return values
		}
		return extractOptionsFromRaw(raw)
	}
	return nil
}

func splitOptionLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// mapValuesInKeyOrder returns map values ordered by key, numerically when
// every key parses as an integer (the endpoint keys options "0".."n").
func mapValuesInKeyOrder(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.Atoi(keys[i])
		b, bErr := strconv.Atoi(keys[j])
		if aErr == nil && bErr == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, m[k])
	}
	return values
}

var optionsBlockRe = regexp.MustCompile(`"Options":\s*\{([^}]*)\}`)

// extractOptionsFromRaw scans the raw response body for an Options block
// and rebuilds the option list from its key:value pairs. This is a
// best-effort recovery for payloads whose duplicate keys collapsed during
// decoding, not a primary path.
func extractOptionsFromRaw(raw []byte) []string {
	match := optionsBlockRe.FindSubmatch(raw)
	if match == nil || len(match[1]) == 0 {
		return nil
	}
	var out []string
	for _, pair := range strings.Split(string(match[1]), ",") {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			continue
		}
		value := strings.TrimSpace(strings.ReplaceAll(parts[1], `"`, ""))
		if value != "" {
			out = append(out, value)
		}
	}
	return out
}
