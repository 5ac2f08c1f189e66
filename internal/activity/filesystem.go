package activity

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"time"

	"dashboard/internal/models"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	searchLimit    = 100
	retentionBatch = 500
	dayLayout      = "2006-01-02"
	dailyFacetName = "daily_counts"
)

// FilesystemActivityEntry is the document shape indexed in bleve.
type FilesystemActivityEntry struct {
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	ObjectType string    `json:"object_type"`
	ObjectID   string    `json:"object_id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	Scope      string    `json:"scope"`
	Object     string    `json:"object"`
}

// keywordFields are the exact-match fields of an entry.
var keywordFields = []string{"action", "object_type", "object_id", "user_id", "username", "role", "scope"}

// Sessions and files only record that the action happened; these keep their payload.
var storedObjectTypes = []string{models.ObjectSharer, models.ObjectViewer, models.ObjectField, models.ObjectOption}

func isAuthorizedObject(objectType string) bool {
	return slices.Contains(storedObjectTypes, objectType)
}

// FilesystemClient implements IActivityLogger on a local bleve index.
type FilesystemClient struct {
	index bleve.Index
}

func NewFilesystemClient(config models.ActivityConfiguration) IActivityLogger {
	index, err := openIndex(config.Filesystem.Directory)
	if err != nil {
		zap.L().Fatal("Failed to open activity index",
			zap.String("directory", config.Filesystem.Directory),
			zap.Error(err))
	}
	return &FilesystemClient{index: index}
}

func stringField(fields map[string]any, name string) string {
	value, _ := fields[name].(string)
	return value
}

func timestampField(fields map[string]any) time.Time {
	t, err := time.Parse(time.RFC3339, stringField(fields, "timestamp"))
	if err != nil {
		return time.Time{}
	}
	return t
}

func entryFromFields(fields map[string]any) FilesystemActivityEntry {
	return FilesystemActivityEntry{
		Message:    stringField(fields, "message"),
		Timestamp:  timestampField(fields),
		Action:     stringField(fields, "action"),
		ObjectType: stringField(fields, "object_type"),
		ObjectID:   stringField(fields, "object_id"),
		UserID:     stringField(fields, "user_id"),
		Username:   stringField(fields, "username"),
		Role:       stringField(fields, "role"),
		Scope:      stringField(fields, "scope"),
		Object:     stringField(fields, "object"),
	}
}

func (c *FilesystemClient) Close() error {
	return c.index.Close()
}

func (c *FilesystemClient) Send(activity models.Activity) error {
	nanos, err := strconv.ParseInt(activity.Filter.Timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("failed to parse timestamp: %w", err)
	}

	fields := activity.Filter.Fields
	entry := FilesystemActivityEntry{
		Message:    activity.Message,
		Timestamp:  time.Unix(0, nanos),
		Action:     fields["action"],
		ObjectType: fields["object_type"],
		ObjectID:   fields["object_id"],
		UserID:     fields["user_id"],
		Username:   fields["username"],
		Role:       fields["role"],
		Scope:      fields["scope"],
	}

	if activity.Object != nil && isAuthorizedObject(entry.ObjectType) {
		payload, marshalErr := json.Marshal(activity.Object)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal object: %w", marshalErr)
		}
		entry.Object = string(payload)
	}

	if err = c.index.Index(uuid.New().String(), entry); err != nil {
		return fmt.Errorf("failed to index activity: %w", err)
	}
	return nil
}

// Search returns the most recent entries of the last days matching the
// criteria, newest first.
func (c *FilesystemClient) Search(searchCriteria map[string][]string, days int) ([]map[string]any, error) {
	if days <= 0 {
		days = DefaultSearchDays
	}
	now := time.Now()

	req := bleve.NewSearchRequest(bleve.NewConjunctionQuery(
		criteriaQuery(searchCriteria),
		windowQuery(now.AddDate(0, 0, -days), now),
	))
	req.Size = searchLimit
	req.SortBy([]string{"-timestamp"})
	req.Fields = []string{"*"}

	result, err := c.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search activity: %w", err)
	}

	activities := make([]map[string]any, 0, len(result.Hits))
	for _, hit := range result.Hits {
		stored := entryFromFields(hit.Fields)

		entry := make(map[string]any, len(keywordFields)+3)
		for _, field := range keywordFields {
			entry[field] = stringField(hit.Fields, field)
		}
		entry["message"] = stored.Message
		if !stored.Timestamp.IsZero() {
			entry["timestamp"] = strconv.FormatInt(stored.Timestamp.UnixNano(), 10)
		}
		if stored.Object != "" {
			var object map[string]any
			if json.Unmarshal([]byte(stored.Object), &object) == nil {
				entry["object"] = object
			}
		}

		activities = append(activities, entry)
	}

	return activities, nil
}

func (c *FilesystemClient) DeleteOlderThan(cutoff time.Time) (int, error) {
	deleted := 0

	for {
		req := bleve.NewSearchRequest(windowQuery(time.Time{}, cutoff))
		req.Size = retentionBatch

		result, err := c.index.Search(req)
		if err != nil {
			return deleted, fmt.Errorf("failed to search expired activity: %w", err)
		}
		if len(result.Hits) == 0 {
			return deleted, nil
		}

		batch := c.index.NewBatch()
		for _, hit := range result.Hits {
			batch.Delete(hit.ID)
		}
		if err = c.index.Batch(batch); err != nil {
			return deleted, fmt.Errorf("failed to delete expired activity: %w", err)
		}
		deleted += len(result.Hits)
	}
}

// CountByDay counts matching entries per UTC day over the last days and
// today. Days without entries are omitted.
func (c *FilesystemClient) CountByDay(searchCriteria map[string][]string, days int) ([]models.TimeSeriesPoint, error) {
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	facet := bleve.NewFacetRequest("timestamp", days+1)
	for offset := days; offset >= 0; offset-- {
		start := today.AddDate(0, 0, -offset)
		facet.AddDateTimeRange(start.Format(dayLayout), start, start.AddDate(0, 0, 1))
	}

	req := bleve.NewSearchRequest(bleve.NewConjunctionQuery(
		criteriaQuery(searchCriteria),
		windowQuery(today.AddDate(0, 0, -days), now),
	))
	req.Size = 0
	req.AddFacet(dailyFacetName, facet)

	result, err := c.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("failed to count activity by day: %w", err)
	}

	points := []models.TimeSeriesPoint{}
	daily, ok := result.Facets[dailyFacetName]
	if !ok {
		return points, nil
	}
	for _, dayRange := range daily.DateRanges {
		if dayRange.Count == 0 {
			continue
		}
		points = append(points, models.TimeSeriesPoint{Date: dayRange.Name, Count: int64(dayRange.Count)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	return points, nil
}

func windowQuery(from, to time.Time) query.Query {
	window := bleve.NewDateRangeQuery(from, to)
	window.SetField("timestamp")
	return window
}

// criteriaQuery ANDs the criteria keys and ORs the values given for one key.
func criteriaQuery(searchCriteria map[string][]string) query.Query {
	keys := make([]string, 0, len(searchCriteria))
	for key, values := range searchCriteria {
		if len(values) > 0 {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return bleve.NewMatchAllQuery()
	}
	sort.Strings(keys)

	clauses := make([]query.Query, 0, len(keys))
	for _, key := range keys {
		alternatives := make([]query.Query, 0, len(searchCriteria[key]))
		for _, value := range searchCriteria[key] {
			term := bleve.NewTermQuery(value)
			term.SetField(key)
			alternatives = append(alternatives, term)
		}
		if len(alternatives) == 1 {
			clauses = append(clauses, alternatives[0])
			continue
		}
		anyOf := bleve.NewDisjunctionQuery(alternatives...)
		anyOf.SetMin(1)
		clauses = append(clauses, anyOf)
	}

	if len(clauses) == 1 {
		return clauses[0]
	}
	return bleve.NewConjunctionQuery(clauses...)
}
