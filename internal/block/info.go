package block

// Info is the summary as_block_info reports to the editor surface.
type Info struct {
	FileID              string   `json:"file_id" yaml:"file_id"`
	BlockID             string   `json:"block_id" yaml:"block_id"`
	RangeStart          int      `json:"range_start" yaml:"range_start"`
	RangeEnd            int      `json:"range_end" yaml:"range_end"`
	UserVersionCount    int      `json:"user_version_count" yaml:"user_version_count"`
	CurrentVersionIndex int      `json:"current_version_index" yaml:"current_version_index"`
	Tags                []TagRef `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// AsBlockInfo summarizes this Block for the editor surface.
func (b *Block) AsBlockInfo(fileID string) Info {
	start, end := b.RangeInParent()

	return Info{
		FileID:              fileID,
		BlockID:             b.ID,
		RangeStart:          start,
		RangeEnd:            end,
		UserVersionCount:    b.UserVersionCount(),
		CurrentVersionIndex: b.CurrentIndex(),
		Tags:                b.TagRefs(),
	}
}
