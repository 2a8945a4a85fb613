// Package category maps free-text transaction descriptions to spending
// categories. Personal merchant rules are consulted first in declaration
// order, then a fixed fallback keyword table.
package category

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Rule is a single personal merchant rule. Keyword is matched as a
// lower-cased substring of the transaction description.
type Rule struct {
	Keyword        string   `json:"merchant_keyword"`
	Category       string   `json:"category"`
	Notes          string   `json:"notes,omitempty"`
	Frequency      string   `json:"frequency,omitempty"`
	TrackBalance   bool     `json:"track_balance,omitempty"`
	CurrentBalance *float64 `json:"current_balance,omitempty"`
	LastUpdated    string   `json:"last_updated,omitempty"`
}

// RuleSet is an ordered list of personal rules plus free-form category
// descriptions. Rule order is significant: when several keywords match a
// description the first declared rule wins, so the order in the rule file
// must survive parsing.
type RuleSet struct {
	Rules        []Rule
	Descriptions map[string]string
}

var errRuleObject = errors.New("merchant_rules must be a JSON object")

// ParseRules reads a personal-categories document. The merchant_rules
// object is decoded token by token because encoding/json map decoding
// would discard key order, and precedence between overlapping keywords is
// exactly the declaration order in the file.
func ParseRules(r io.Reader) (RuleSet, error) {
	dec := json.NewDecoder(r)

	var rs RuleSet
	tok, err := dec.Token()
	if err != nil {
		return rs, fmt.Errorf("read rules document: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return rs, errors.New("rules document must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return rs, fmt.Errorf("read rules key: %w", err)
		}
		key, _ := keyTok.(string)
		switch key {
		case "merchant_rules":
			rules, err := parseMerchantRules(dec)
			if err != nil {
				return rs, err
			}
			rs.Rules = rules
		case "category_descriptions":
			if err := dec.Decode(&rs.Descriptions); err != nil {
				return rs, fmt.Errorf("decode category descriptions: %w", err)
			}
		default:
			// Unknown top-level sections are skipped.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return rs, fmt.Errorf("skip section %q: %w", key, err)
			}
		}
	}
	return rs, nil
}

func parseMerchantRules(dec *json.Decoder) ([]Rule, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read merchant_rules: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errRuleObject
	}

	var rules []Rule
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read merchant keyword: %w", err)
		}
		keyword, _ := keyTok.(string)

		var rule Rule
		if err := dec.Decode(&rule); err != nil {
			return nil, fmt.Errorf("decode rule for %q: %w", keyword, err)
		}
		rule.Keyword = strings.ToLower(keyword)
		if rule.Category == "" {
			return nil, fmt.Errorf("rule for %q has no category", keyword)
		}
		rules = append(rules, rule)
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, fmt.Errorf("read merchant_rules end: %w", err)
	}
	return rules, nil
}
