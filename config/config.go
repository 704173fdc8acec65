package config

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Razorpay RazorpayConfig
	Twilio   TwilioConfig
	Clinic   ClinicConfig
	Admin    AdminConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	TimeZone string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// RazorpayConfig holds the payment gateway credentials. Both fields are
// required for online consultations; payment endpoints report a configuration
// error when either is empty.
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

// Configured reports whether the gateway credentials are present.
func (c RazorpayConfig) Configured() bool {
	return c.KeyID != "" && c.KeySecret != ""
}

type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	WhatsAppFrom string // e.g. "whatsapp:+14155238886"
	SMSFrom      string
}

// Configured reports whether notification dispatch is possible. Notifications
// are best-effort, so an unconfigured Twilio account is not an error.
func (c TwilioConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != ""
}

// ClinicConfig carries the single-practice identity echoed on confirmations
// and prescriptions.
type ClinicConfig struct {
	Name       string
	DoctorName string
	Address    string
	Phone      string
	// ConsultFee is the online consultation fee in rupees.
	ConsultFee decimal.Decimal
}

type AdminConfig struct {
	// Key guards review deletion; checked against the x-admin-key header at
	// request time, never stored in a session.
	Key string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	fee, err := decimal.NewFromString(viper.GetString("CONSULT_FEE"))
	if err != nil {
		fee = decimal.NewFromInt(1)
	}

	tz := viper.GetString("DB_TIMEZONE")
	if tz == "" {
		tz = "Asia/Kolkata"
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			TimeZone: tz,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Razorpay: RazorpayConfig{
			KeyID:     viper.GetString("RAZORPAY_KEY_ID"),
			KeySecret: viper.GetString("RAZORPAY_KEY_SECRET"),
		},
		Twilio: TwilioConfig{
			AccountSID:   viper.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:    viper.GetString("TWILIO_AUTH_TOKEN"),
			WhatsAppFrom: viper.GetString("TWILIO_WHATSAPP_FROM"),
			SMSFrom:      viper.GetString("TWILIO_SMS_FROM"),
		},
		Clinic: ClinicConfig{
			Name:       viper.GetString("CLINIC_NAME"),
			DoctorName: viper.GetString("CLINIC_DOCTOR_NAME"),
			Address:    viper.GetString("CLINIC_ADDRESS"),
			Phone:      viper.GetString("CLINIC_PHONE"),
			ConsultFee: fee,
		},
		Admin: AdminConfig{
			Key: viper.GetString("ADMIN_KEY"),
		},
	}

	return config, nil
}
