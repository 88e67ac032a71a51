package layers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
)

// VacancySlot is one vehicle category's vacancy figure. Vacancy is a
// pointer so that a reported zero stays distinguishable from no data.
type VacancySlot struct {
	Vacancy *float64
}

func (s *VacancySlot) UnmarshalJSON(b []byte) error {
	var raw struct {
		Vacancy interface{} `json:"vacancy"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.Vacancy.(type) {
	case float64:
		s.Vacancy = &v
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			s.Vacancy = &n
		}
	}
	return nil
}

// CarparkVacancy is the live availability record for one carpark.
type CarparkVacancy struct {
	ParkID     string        `json:"park_Id"`
	PrivateCar []VacancySlot `json:"privateCar"`
	MotorCycle []VacancySlot `json:"motorCycle"`
	LGV        []VacancySlot `json:"LGV"`
	HGV        []VacancySlot `json:"HGV"`
	Coach      []VacancySlot `json:"coach"`
}

// Carpark is one facility from the info endpoint, with its vacancy
// record joined in when the vacancy endpoint answered.
type Carpark struct {
	ParkID         string  `json:"park_Id"`
	Name           string  `json:"name"`
	DisplayAddress string  `json:"displayAddress"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	OpeningStatus  string  `json:"opening_status"`

	Vacancy *CarparkVacancy `json:"-"`
}

// LoadCarparks fetches carpark info and joins live vacancy by park id.
// A vacancy fetch failure degrades to info-only carparks rather than an
// error; an info fetch failure is fatal for the layer.
func (a *App) LoadCarparks(ctx context.Context) ([]Carpark, error) {
	langParam := "&lang=" + string(a.lang)
	body, err := a.client.Get(ctx, a.sources.CarparkInfoURL+langParam)
	if err != nil {
		return nil, fmt.Errorf("fetch carpark info: %w", err)
	}
	var info struct {
		Results []Carpark `json:"results"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("parse carpark info: %w", err)
	}
	if len(info.Results) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(info.Results))
	for _, c := range info.Results {
		ids = append(ids, c.ParkID)
	}
	vacancyURL := a.sources.CarparkVacancyURL + "&carparkIds=" + strings.Join(ids, ",") + langParam
	byID := make(map[string]*CarparkVacancy)
	if vbody, err := a.client.Get(ctx, vacancyURL); err != nil {
		log.Printf("carpark vacancy fetch failed, showing info only: %v", err)
	} else {
		var vacancy struct {
			Results []CarparkVacancy `json:"results"`
		}
		if err := json.Unmarshal(vbody, &vacancy); err != nil {
			log.Printf("carpark vacancy parse failed, showing info only: %v", err)
		} else {
			for i := range vacancy.Results {
				byID[vacancy.Results[i].ParkID] = &vacancy.Results[i]
			}
		}
	}

	for i := range info.Results {
		info.Results[i].Vacancy = byID[info.Results[i].ParkID]
	}
	return info.Results, nil
}
