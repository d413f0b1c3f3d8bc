package search

import "unicode/utf8"

const titleFallbackLen = 80

// FromRaw maps loosely-shaped retrieval hits into Results. Backends disagree
// on field names, so each field is resolved through an ordered key list:
//
//	id:      id, metadata.id, _id
//	title:   title, metadata.title, first 80 chars of document
//	content: content, document, metadata.content
//	score:   score, else 1 - distance, else 0
func FromRaw(items []map[string]interface{}) []Result {
	results := make([]Result, 0, len(items))
	for _, item := range items {
		meta, _ := item["metadata"].(map[string]interface{})

		res := Result{
			ID:      firstString(item, meta, []string{"id", "_id"}, []string{"id"}),
			Title:   firstString(item, meta, []string{"title"}, []string{"title"}),
			Content: firstString(item, meta, []string{"content", "document"}, []string{"content"}),
		}

		if res.Title == "" {
			if doc, ok := item["document"].(string); ok {
				res.Title = truncate(doc, titleFallbackLen)
			}
		}

		if score, ok := numberField(item, "score"); ok {
			res.Score = score
		} else if dist, ok := numberField(item, "distance"); ok {
			res.Score = 1 - dist
		}

		results = append(results, res)
	}
	return results
}

func firstString(item, meta map[string]interface{}, itemKeys, metaKeys []string) string {
	for _, key := range itemKeys {
		if v, ok := item[key].(string); ok && v != "" {
			return v
		}
	}
	if meta != nil {
		for _, key := range metaKeys {
			if v, ok := meta[key].(string); ok && v != "" {
				return v
			}
		}
	}
	return ""
}

func numberField(item map[string]interface{}, key string) (float64, bool) {
	switch v := item[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// truncate caps s at n runes, never splitting a multi-byte character.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
