package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
)

type Config struct {
	Env      string `yaml:"env" env-default:"local"`
	Timezone string `yaml:"timezone" env-default:"UTC"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env-default:""`
		AdminId int64  `yaml:"admin_id" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"CalAssistBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	OpenAI struct {
		ApiKey string `yaml:"api_key" env-default:""`
		Model  string `yaml:"model" env-default:"gpt-4o"`
	} `yaml:"openai"`
	Google struct {
		ClientId     string `yaml:"client_id" env-default:""`
		ClientSecret string `yaml:"client_secret" env-default:""`
		RedirectHost string `yaml:"redirect_host" env-default:"http://localhost:9200"`
		CalendarId   string `yaml:"calendar_id" env-default:"primary"`
	} `yaml:"google"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env-default:"pass"`
		Database string `yaml:"database" env-default:""`
	} `yaml:"mongo"`
	Reminder struct {
		LeadMinutes int `yaml:"lead_minutes" env-default:"15"`
		ScanSeconds int `yaml:"scan_seconds" env-default:"60"`
	} `yaml:"reminder"`
	Listen struct {
		BindIP       string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port         string `yaml:"port" env-default:"9200"`
		ApiKey       string `yaml:"key" env-default:""`
		TicketSecret string `yaml:"ticket_secret" env-default:""`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
