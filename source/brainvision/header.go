package brainvision

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/nixworks/nixworks/errs"
)

const (
	headerBanner = "Brain Vision Data Exchange Header File Version 1.0"
	markerBanner = "Brain Vision Data Exchange Marker File, Version 1.0"

	commonSection  = "Common Infos"
	binarySection  = "Binary Infos"
	channelSection = "Channel Infos"
	markerSection  = "Marker Infos"

	formatInt16   = "INT_16"
	formatFloat32 = "IEEE_FLOAT_32"

	orientationMultiplexed = "MULTIPLEXED"
	orientationVectorized  = "VECTORIZED"

	defaultUnit = "µV"

	// commaEscape stands for a comma inside a comma-separated field.
	commaEscape = `\1`
)

var loadOptions = ini.LoadOptions{
	IgnoreInlineComment:     true,
	SkipUnrecognizableLines: true,
	KeyValueDelimiters:      "=",
	UnparseableSections:     []string{"Comment"},
}

// channelInfo is one "Ch{i}=name,reference,resolution,unit" entry.
type channelInfo struct {
	name       string
	reference  string
	resolution float64
	unit       string
}

type vhdr struct {
	dataFile         string
	markerFile       string
	orientation      string
	binaryFormat     string
	samplingInterval float64
	channels         []channelInfo
}

func (h *vhdr) sampleSize() int {
	if h.binaryFormat == formatInt16 {
		return 2
	}

	return 4
}

func loadINI(source any) (*ini.File, error) {
	cfg, err := ini.LoadSources(loadOptions, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidSource, err)
	}

	return cfg, nil
}

func parseVHDR(source any) (*vhdr, error) {
	cfg, err := loadINI(source)
	if err != nil {
		return nil, err
	}

	common := cfg.Section(commonSection)
	h := &vhdr{
		dataFile:     common.Key("DataFile").String(),
		markerFile:   common.Key("MarkerFile").String(),
		orientation:  strings.ToUpper(common.Key("DataOrientation").MustString(orientationMultiplexed)),
		binaryFormat: strings.ToUpper(cfg.Section(binarySection).Key("BinaryFormat").MustString(formatInt16)),
	}

	if format := common.Key("DataFormat").MustString("BINARY"); !strings.EqualFold(format, "BINARY") {
		return nil, fmt.Errorf("%w: data format %q", errs.ErrInvalidSource, format)
	}
	if h.dataFile == "" {
		return nil, fmt.Errorf("%w: no DataFile", errs.ErrInvalidSource)
	}
	if h.orientation != orientationMultiplexed && h.orientation != orientationVectorized {
		return nil, fmt.Errorf("%w: data orientation %q", errs.ErrInvalidSource, h.orientation)
	}
	if h.binaryFormat != formatInt16 && h.binaryFormat != formatFloat32 {
		return nil, fmt.Errorf("%w: binary format %q", errs.ErrInvalidSource, h.binaryFormat)
	}

	if h.samplingInterval, err = common.Key("SamplingInterval").Float64(); err != nil || h.samplingInterval <= 0 {
		return nil, fmt.Errorf("%w: sampling interval %q", errs.ErrInvalidSource, common.Key("SamplingInterval").String())
	}

	n, err := common.Key("NumberOfChannels").Int()
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("%w: number of channels %q", errs.ErrInvalidSource, common.Key("NumberOfChannels").String())
	}

	channels := cfg.Section(channelSection)
	for i := 1; i <= n; i++ {
		key := "Ch" + strconv.Itoa(i)
		if !channels.HasKey(key) {
			return nil, fmt.Errorf("%w: missing channel %s", errs.ErrInvalidSource, key)
		}
		ch, err := parseChannel(channels.Key(key).String())
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", key, err)
		}
		h.channels = append(h.channels, ch)
	}

	return h, nil
}

func parseChannel(value string) (channelInfo, error) {
	fields := strings.Split(value, ",")
	ch := channelInfo{name: unescape(fields[0]), resolution: 1, unit: defaultUnit}
	if len(fields) > 1 {
		ch.reference = unescape(fields[1])
	}
	if len(fields) > 2 && strings.TrimSpace(fields[2]) != "" {
		r, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return ch, fmt.Errorf("%w: resolution %q", errs.ErrInvalidSource, fields[2])
		}
		ch.resolution = r
	}
	if len(fields) > 3 && strings.TrimSpace(fields[3]) != "" {
		ch.unit = strings.TrimSpace(fields[3])
	}

	return ch, nil
}

func unescape(s string) string {
	return strings.ReplaceAll(s, commaEscape, ",")
}

func escape(s string) string {
	return strings.ReplaceAll(s, ",", commaEscape)
}
