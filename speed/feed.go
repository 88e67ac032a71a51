package speed

import (
	"bytes"
	"encoding/xml"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
)

// Reliability is the coarse traffic tier derived from a speed reading.
type Reliability int

const (
	Unknown Reliability = iota
	Smooth
	Slow
	Congested
)

func (r Reliability) String() string {
	switch r {
	case Smooth:
		return "smooth"
	case Slow:
		return "slow"
	case Congested:
		return "congested"
	default:
		return "unknown"
	}
}

// Reading is one live measurement for a road segment.
type Reading struct {
	Speed       int
	Reliability Reliability
}

// Classify maps a speed in km/h to a reliability tier. 40 km/h and below
// is not smooth; 20 km/h and below is congested.
func Classify(speed float64) Reliability {
	switch {
	case speed > 40:
		return Smooth
	case speed > 20:
		return Slow
	default:
		return Congested
	}
}

type segmentEntry struct {
	ID    string `xml:"segment_id"`
	Speed string `xml:"speed"`
	Valid string `xml:"valid"`
}

type jtisEntry struct {
	ID         string `xml:"segment_id"`
	Speed      string `xml:"traffic_speed"`
	Saturation string `xml:"road_saturation_level"`
}

// DecodeFeed parses the live speed XML into a segment-id keyed mapping.
// Segments not marked valid=Y are treated as absent rather than zero.
// When the primary element shape yields nothing, an alternate shape
// carrying a textual saturation level is tried instead. Malformed input
// decodes to an empty mapping.
func DecodeFeed(data []byte) map[string]Reading {
	dec := xml.NewDecoder(bytes.NewReader(data))
	primary := make(map[string]Reading)
	fallback := make(map[string]Reading)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("traffic speed feed parse failed: %v", err)
			return map[string]Reading{}
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "segment":
			var e segmentEntry
			if err := dec.DecodeElement(&e, &start); err != nil {
				log.Printf("traffic speed feed parse failed: %v", err)
				return map[string]Reading{}
			}
			addPrimary(primary, e)
		case "jtis_speed":
			var e jtisEntry
			if err := dec.DecodeElement(&e, &start); err != nil {
				log.Printf("traffic speed feed parse failed: %v", err)
				return map[string]Reading{}
			}
			addFallback(fallback, e)
		}
	}
	if len(primary) > 0 {
		return primary
	}
	return fallback
}

func addPrimary(out map[string]Reading, e segmentEntry) {
	id := strings.TrimSpace(e.ID)
	if id == "" || !strings.EqualFold(strings.TrimSpace(e.Valid), "Y") {
		return
	}
	speed, err := strconv.ParseFloat(strings.TrimSpace(e.Speed), 64)
	if err != nil {
		return
	}
	out[id] = Reading{
		Speed:       int(math.Round(speed)),
		Reliability: Classify(speed),
	}
}

func addFallback(out map[string]Reading, e jtisEntry) {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		return
	}
	speed, err := strconv.Atoi(strings.TrimSpace(e.Speed))
	if err != nil {
		return
	}
	var rel Reliability
	switch strings.ToUpper(strings.TrimSpace(e.Saturation)) {
	case "TRAFFIC SMOOTH":
		rel = Smooth
	case "TRAFFIC SLOW":
		rel = Slow
	case "TRAFFIC CONGESTED":
		rel = Congested
	default:
		return
	}
	out[id] = Reading{Speed: speed, Reliability: rel}
}
