// ABOUTME: DailySeries is the date-ordered per-day calorie series.
// ABOUTME: It serialises as an ordered object keyed by ISO date.
package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/harperreed/diet/internal/models"
	"gopkg.in/yaml.v3"
)

// DayCalories is one point of the series.
type DayCalories struct {
	Date     models.Date
	Calories int
}

// DailySeries lists rounded calories per day in ascending date order.
type DailySeries []DayCalories

// Get returns the calories logged for d.
func (s DailySeries) Get(d models.Date) (int, bool) {
	for _, p := range s {
		if p.Date.Equal(d) {
			return p.Calories, true
		}
	}
	return 0, false
}

// MarshalJSON writes {"2024-01-01": 1800, ...} keeping date order, which a
// Go map would lose.
func (s DailySeries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Date.String())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(p.Calories))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form back, preserving key order.
func (s *DailySeries) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("daily calories: expected object, got %v", tok)
	}

	var out DailySeries
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		d, err := models.ParseDate(key)
		if err != nil {
			return fmt.Errorf("daily calories: %w", err)
		}
		var cal int
		if err := dec.Decode(&cal); err != nil {
			return fmt.Errorf("daily calories %s: %w", key, err)
		}
		out = append(out, DayCalories{Date: d, Calories: cal})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// MarshalYAML emits an ordered mapping.
func (s DailySeries) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range s {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Date.String()},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(p.Calories)},
		)
	}
	return node, nil
}
