package activity

import (
	"errors"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"go.uber.org/zap"
)

const (
	schemaVersion  = "2"
	reindexPage    = 200
	rebuildSuffix  = ".rebuild"
	previousSuffix = ".previous"
)

var schemaVersionKey = []byte("schema_version")

func newIndexMapping() *mapping.IndexMappingImpl {
	keyword := bleve.NewKeywordFieldMapping()

	stored := bleve.NewTextFieldMapping()
	stored.Index = false
	stored.Store = true

	entry := bleve.NewDocumentMapping()
	for _, field := range keywordFields {
		entry.AddFieldMappingsAt(field, keyword)
	}
	entry.AddFieldMappingsAt("timestamp", bleve.NewDateTimeFieldMapping())
	entry.AddFieldMappingsAt("message", bleve.NewTextFieldMapping())
	entry.AddFieldMappingsAt("object", stored)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = entry
	return indexMapping
}

func createIndex(dir string) (bleve.Index, error) {
	index, err := bleve.New(dir, newIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create activity index: %w", err)
	}
	if err = index.SetInternal(schemaVersionKey, []byte(schemaVersion)); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("failed to stamp schema version: %w", err)
	}
	return index, nil
}

// openIndex opens the index at dir, creating it when missing and
// rebuilding it when its mapping is from another schema version.
func openIndex(dir string) (bleve.Index, error) {
	index, err := bleve.Open(dir)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) || errors.Is(err, bleve.ErrorIndexMetaMissing) {
		return createIndex(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open activity index: %w", err)
	}

	stored, err := index.GetInternal(schemaVersionKey)
	if err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}
	if string(stored) == schemaVersion {
		return index, nil
	}

	zap.L().Info("Rebuilding activity index",
		zap.String("from_version", string(stored)),
		zap.String("to_version", schemaVersion))

	rebuilt, err := rebuildIndex(index, dir)
	if closeErr := index.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to close outdated index: %w", closeErr)
	}
	if err != nil {
		_ = os.RemoveAll(dir + rebuildSuffix)
		return nil, err
	}
	zap.L().Info("Activity index rebuilt", zap.Int("entries", rebuilt))

	if err = swapIndexDirs(dir); err != nil {
		return nil, err
	}
	return bleve.Open(dir)
}

// rebuildIndex copies every entry of source into a fresh index next to dir,
// paging by document id so that deep pages stay cheap.
func rebuildIndex(source bleve.Index, dir string) (int, error) {
	target, err := createIndex(dir + rebuildSuffix)
	if err != nil {
		return 0, err
	}
	defer func() { _ = target.Close() }()

	copied := 0
	var after []string
	for {
		req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
		req.Size = reindexPage
		req.Fields = []string{"*"}
		req.SortBy([]string{"_id"})
		if after != nil {
			req.SearchAfter = after
		}

		result, err := source.Search(req)
		if err != nil {
			return copied, fmt.Errorf("failed to read outdated index: %w", err)
		}
		if len(result.Hits) == 0 {
			return copied, nil
		}

		batch := target.NewBatch()
		for _, hit := range result.Hits {
			if err = batch.Index(hit.ID, entryFromFields(hit.Fields)); err != nil {
				return copied, fmt.Errorf("failed to copy entry %s: %w", hit.ID, err)
			}
		}
		if err = target.Batch(batch); err != nil {
			return copied, fmt.Errorf("failed to write rebuilt index: %w", err)
		}

		copied += len(result.Hits)
		after = []string{result.Hits[len(result.Hits)-1].ID}
	}
}

func swapIndexDirs(dir string) error {
	previous := dir + previousSuffix
	if err := os.Rename(dir, previous); err != nil {
		return fmt.Errorf("failed to move outdated index aside: %w", err)
	}
	if err := os.Rename(dir+rebuildSuffix, dir); err != nil {
		_ = os.Rename(previous, dir)
		return fmt.Errorf("failed to install rebuilt index: %w", err)
	}
	if err := os.RemoveAll(previous); err != nil {
		zap.L().Warn("Failed to remove outdated index", zap.String("dir", previous), zap.Error(err))
	}
	return nil
}
