package graphkey

const (
	datasetSeparator = "\n"
	contextSeparator = "\t"
)

// GraphKeyer generates the keys identifying the graphs of one dataset: a
// source loaded into the default graph (empty context) or a named graph.
type GraphKeyer struct {
	// Dataset IRI
	DatasetID string
	// Key prefix for this dataset
	DatasetPrefix string
}

func NewGraphKeyer(datasetID string) GraphKeyer {
	return GraphKeyer{
		DatasetID:     datasetID,
		DatasetPrefix: datasetID + datasetSeparator,
	}
}

// Key returns the key of a source loaded into context.
func (k GraphKeyer) Key(source, context string) string {
	return k.DatasetPrefix + source + contextSeparator + context
}
