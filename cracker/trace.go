package cracker

// LogBatch is a struct meant for serializing to a trace file, for debug
// and other purposes. Workers emit one per flushed progress batch.
type LogBatch struct {
	Worker   int    `yaml:"worker"`
	Prefixes string `yaml:"prefixes"`
	Last     string `yaml:"last"`
	Attempts uint64 `yaml:"attempts"`
	Total    uint64 `yaml:"total"`
}
