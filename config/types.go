package config

// ServerConfig contains the optional status endpoint configuration.
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0"`
}

// FetchConfig controls the resilience layer shared by every remote source.
type FetchConfig struct {
	Proxies          []string `yaml:"proxies" validate:"dive,url"`
	TimeoutMS        int      `yaml:"timeoutMS" validate:"gte=0"`
	RetryAttempts    int      `yaml:"retryAttempts" validate:"gte=0"`
	RetryBaseDelayMS int      `yaml:"retryBaseDelayMS" validate:"gte=0"`
}

// SourcesConfig lists the upstream dataset endpoints. Every field is a full
// request URL; spatial filters and paging parameters are appended by the
// component that owns the dataset.
type SourcesConfig struct {
	CarparkInfoURL    string `yaml:"carparkInfoURL" validate:"omitempty,url"`
	CarparkVacancyURL string `yaml:"carparkVacancyURL" validate:"omitempty,url"`
	AttractionsURL    string `yaml:"attractionsURL" validate:"omitempty,url"`
	ViewingPointsURL  string `yaml:"viewingPointsURL" validate:"omitempty,url"`
	ParkingMetersURL  string `yaml:"parkingMetersURL" validate:"omitempty,url"`
	MeterStatusURL    string `yaml:"meterStatusURL" validate:"omitempty,url"`
	TurnRestrictsURL  string `yaml:"turnRestrictionsURL" validate:"omitempty,url"`
	TrafficFeatsURL   string `yaml:"trafficFeaturesURL" validate:"omitempty,url"`
	PermitURL         string `yaml:"permitURL" validate:"omitempty,url"`
	ProhibitionPCURL  string `yaml:"prohibitionPCURL" validate:"omitempty,url"`
	ProhibitionAllURL string `yaml:"prohibitionAllURL" validate:"omitempty,url"`
	RoadNetworkURL    string `yaml:"roadNetworkURL" validate:"omitempty,url"`
	TrafficSpeedURL   string `yaml:"trafficSpeedURL" validate:"omitempty,url"`
	FuelStationsURL   string `yaml:"fuelStationsURL" validate:"omitempty,url"`
	FuelPricesURL     string `yaml:"fuelPricesURL" validate:"omitempty,url"`
	ToiletsFEHDURL    string `yaml:"toiletsFEHDURL" validate:"omitempty,url"`
	ToiletsAFCDURL    string `yaml:"toiletsAFCDURL" validate:"omitempty,url"`
	RetailersURL      string `yaml:"retailersURL" validate:"omitempty,url"`
}

// RoadNetworkConfig controls the chunked geometry loader and its cache.
type RoadNetworkConfig struct {
	PageSize     int    `yaml:"pageSize" validate:"gte=0"`
	ChunkSize    int    `yaml:"chunkSize" validate:"gte=0"`
	CachePath    string `yaml:"cachePath"`
	CacheTTLDays int    `yaml:"cacheTTLDays" validate:"gte=0"`
	RecordTag    string `yaml:"recordTag"`
}

// SpeedConfig controls the live traffic-speed join.
type SpeedConfig struct {
	RefreshSeconds int `yaml:"refreshSeconds" validate:"gte=0"`
}

// NavConfig holds the proximity thresholds for the alert loop, in meters.
type NavConfig struct {
	AlertRadiusM  float64 `yaml:"alertRadiusM" validate:"gte=0"`
	RouteBufferM  float64 `yaml:"routeBufferM" validate:"gte=0"`
	ArriveRadiusM float64 `yaml:"arriveRadiusM" validate:"gte=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server      ServerConfig      `yaml:"server"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Sources     SourcesConfig     `yaml:"sources"`
	RoadNetwork RoadNetworkConfig `yaml:"roadNetwork"`
	Speed       SpeedConfig       `yaml:"speed"`
	Nav         NavConfig         `yaml:"nav"`
}
