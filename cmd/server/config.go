package main

type PortalConfig struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type SessionConfig struct {
	SigningKey       string `json:"signing_key"`
	AccessTTLMinutes int    `json:"access_ttl_minutes"`
	RefreshTTLDays   int    `json:"refresh_ttl_days"`
}

type MenuConfig struct {
	RetryDelaySeconds int `json:"retry_delay_seconds"`
	RetryCeiling      int `json:"retry_ceiling"`
	// cron expression for the scheduled weekly refresh, evaluated in
	// the portal's timezone
	RefreshSchedule string `json:"refresh_schedule"`
	SqlitePath      string `json:"sqlite_path"`
}

type ServerConfig struct {
	Listen  string        `json:"listen"`
	Portal  PortalConfig  `json:"portal"`
	Redis   RedisConfig   `json:"redis"`
	Session SessionConfig `json:"session"`
	Menu    MenuConfig    `json:"menu"`
}
