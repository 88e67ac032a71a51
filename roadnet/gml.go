package roadnet

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// ParseBulk reads the bulk GML export. Each element named recordTag is
// one road record carrying a ROUTE_ID, optional street names and one or
// more posList coordinate runs in latitude-longitude axis order. Records
// without a route identifier or without geometry are dropped.
func ParseBulk(data []byte, recordTag string) ([]Segment, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var segs []Segment
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse road network: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != recordTag {
			continue
		}
		seg, err := parseRecord(dec, start)
		if err != nil {
			return nil, fmt.Errorf("parse road network: %w", err)
		}
		if seg.RouteID == "" || len(seg.Geometry) == 0 {
			continue
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func parseRecord(dec *xml.Decoder, start xml.StartElement) (Segment, error) {
	var seg Segment
	var text strings.Builder
	current := ""
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return Segment{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			current = t.Name.Local
			text.Reset()
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if depth == 0 {
				return seg, nil
			}
			depth--
			switch current {
			case "ROUTE_ID":
				seg.RouteID = strings.TrimSpace(text.String())
			case "STREET_ENAME":
				seg.NameEN = strings.TrimSpace(text.String())
			case "STREET_CNAME":
				seg.NameZH = strings.TrimSpace(text.String())
			case "posList":
				if line := parsePosList(text.String()); len(line) >= 2 {
					seg.Geometry = append(seg.Geometry, line)
				}
			}
			current = ""
			text.Reset()
		}
	}
}

// parsePosList converts "lat lon lat lon ..." into a line string.
func parsePosList(s string) orb.LineString {
	fields := strings.Fields(s)
	line := make(orb.LineString, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		lat, err1 := strconv.ParseFloat(fields[i], 64)
		lon, err2 := strconv.ParseFloat(fields[i+1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		line = append(line, orb.Point{lon, lat})
	}
	return line
}
