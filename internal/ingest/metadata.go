package ingest

import (
	"errors"
	"fmt"
	"os"
	"path"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/rdfmine/api"
)

// ErrMetadataNotObject is returned when a metadata file holds valid JSON that
// is not an object.
var ErrMetadataNotObject = errors.New("metadata is not a JSON object")

var minedPath = jp.C(api.MinedKey)

// readMetadata loads the dataset's metadata object. A missing file yields an
// empty object and exists=false.
func readMetadata(fsys billy.Filesystem, dataset string) (doc map[string]any, exists bool, err error) {
	data, err := util.ReadFile(fsys, path.Join(dataset, api.MetadataFile))
	if errors.Is(err, os.ErrNotExist) {
		return map[string]any{}, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	v, err := oj.Parse(data)
	if err != nil {
		return nil, true, fmt.Errorf("parse %s: %w", api.MetadataFile, err)
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, true, fmt.Errorf("%s: %w", api.MetadataFile, ErrMetadataNotObject)
	}
	return doc, true, nil
}

// IsMined reports whether the dataset's metadata carries mined_jena=true.
// Datasets without a metadata file are not mined.
func IsMined(fsys billy.Filesystem, dataset string) (bool, error) {
	doc, exists, err := readMetadata(fsys, dataset)
	if err != nil || !exists {
		return false, err
	}
	mined, _ := minedPath.First(doc).(bool)
	return mined, nil
}

// MarkMined records the mining outcome in the dataset's metadata, keeping
// every other field. A missing metadata file is created.
func MarkMined(fsys billy.Filesystem, dataset string, minedFiles any) error {
	doc, _, err := readMetadata(fsys, dataset)
	if err != nil {
		return err
	}

	doc[api.MinedKey] = true
	doc[api.MinedFilesKey] = minedFiles

	out := oj.JSON(doc, &oj.Options{Indent: 4, Sort: true})
	return writeFileAtomic(fsys, path.Join(dataset, api.MetadataFile), []byte(out+"\n"))
}
