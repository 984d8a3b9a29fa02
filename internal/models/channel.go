package models

import (
	"fmt"
	"strings"
)

// Channel identifies one of the three color channels of a replicate image.
// Sample order inside a FloatImage is fixed at the decoding boundary as
// channel0=blue, channel1=green, channel2=red, so a Channel's Index is the
// position of its sample within a pixel.
type Channel int

const (
	ChannelBlue Channel = iota
	ChannelGreen
	ChannelRed
)

// ParseChannel converts a user-supplied channel tag (R, G or B, case
// insensitive) into a Channel.
func ParseChannel(tag string) (Channel, error) {
	switch strings.ToUpper(strings.TrimSpace(tag)) {
	case "B":
		return ChannelBlue, nil
	case "G":
		return ChannelGreen, nil
	case "R":
		return ChannelRed, nil
	}
	return 0, fmt.Errorf("invalid channel %q: must be R, G or B", tag)
}

// Index returns the position of this channel's sample within a pixel.
func (c Channel) Index() int {
	return int(c)
}

// Tag returns the single-letter tag used in output filenames.
func (c Channel) Tag() string {
	switch c {
	case ChannelBlue:
		return "B"
	case ChannelGreen:
		return "G"
	case ChannelRed:
		return "R"
	}
	return "?"
}

// Name returns the human-readable statistic name used in CSV headers,
// e.g. "Redness" for the red channel.
func (c Channel) Name() string {
	switch c {
	case ChannelBlue:
		return "Blueness"
	case ChannelGreen:
		return "Greenness"
	case ChannelRed:
		return "Redness"
	}
	return "Unknown"
}
