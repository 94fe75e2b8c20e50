package indices

import (
	"encoding/json"
	"fieldjobs/client/es"
	"fieldjobs/session"
	"fmt"
	"strings"
)

var (
	SearchJobsFunc = SearchJobs
)

type JobSearchQuery struct {
	Text     string `form:"q"`
	Status   string `form:"status"`
	Archived *bool  `form:"archived"`
}

// SearchJobs runs a full text query, technicians only see jobs they take part in.
func SearchJobs(q JobSearchQuery, s *session.Session) ([]JobDocument, error) {
	filters := make([]es.H, 0, 4)
	if !s.IsBoss() {
		filters = append(filters, es.H{"term": es.H{"participants": s.Identity.ID}})
	}
	if q.Status != "" {
		filters = append(filters, es.H{"term": es.H{"status": q.Status}})
	}
	if q.Archived != nil {
		filters = append(filters, es.H{"term": es.H{"archived": *q.Archived}})
	}

	boolQuery := es.H{"filter": filters}
	if text := strings.TrimSpace(q.Text); text != "" {
		boolQuery["must"] = es.H{"multi_match": es.H{
			"query":    text,
			"fields":   []string{"title^3", "siteLocation^2", "description", "tasks"},
			"operator": "AND",
		}}
	}

	r, err := es.SearchFunc(s.Ctx(), JobIndexName, es.H{"size": 1000, "query": es.H{"bool": boolQuery},
		"sort": []es.H{{"createTime": es.H{"order": "desc"}}}})
	if err != nil {
		return nil, err
	}
	docs := make([]JobDocument, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		doc := JobDocument{}
		if err := json.NewDecoder(strings.NewReader(string(hit.Source))).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode job document %s: %w", hit.Id, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
