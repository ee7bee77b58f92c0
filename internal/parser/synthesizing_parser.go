//go:build unix

package parser

import "github.com/standardbeagle/corescan/internal/unpackdir"

// SynthesizingParser represents an unclassified gap between recognised
// regions. It always succeeds, claiming exactly the length it was given.
type SynthesizingParser struct {
	startOffset int64
	length      int64
}

// NewSynthesizingParser builds a placeholder for the gap [offset, offset+length).
func NewSynthesizingParser(offset, length int64) *SynthesizingParser {
	return &SynthesizingParser{startOffset: offset, length: length}
}

// ParseFromOffset always succeeds: a synthesized region is claimed by
// construction, not by structural validation.
func (p *SynthesizingParser) ParseFromOffset() error { return nil }

// ParsedSize returns the gap's length.
func (p *SynthesizingParser) ParsedSize() int64 { return p.length }

// Unpack is a no-op: a synthesized gap has no children.
func (p *SynthesizingParser) Unpack(ud *unpackdir.Dir) ([]*unpackdir.Dir, error) { return nil, nil }

// WriteInfo labels the gap "synthesized".
func (p *SynthesizingParser) WriteInfo(ud *unpackdir.Dir) {
	ud.Info["labels"] = []string{"synthesized"}
	ud.Info["metadata"] = map[string]any{}
	ud.Info["offset"] = p.startOffset
	ud.Info["size"] = p.length
	ud.Info["parser"] = "synthesizing"
}
