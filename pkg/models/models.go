package models

import "time"

// Config is the controller's singleton settings row.
type Config struct {
	ID                uint    `gorm:"primaryKey"`
	Name              *string `gorm:"column:name"`
	TimeZone          *string `gorm:"column:timeZone"`
	PathAPI           *string `gorm:"column:path_api"`
	PathGUI           *string `gorm:"column:path_gui"`
	WebapiTitle       *string `gorm:"column:webapi_title"`
	WebapiDescription *string `gorm:"column:webapi_description"`
	WebapiVersion     *string `gorm:"column:webapi_version"`
	WebapiOpenapiURL  *string `gorm:"column:webapi_openapi_url"`
	WebapiDocsURL     *string `gorm:"column:webapi_docs_url"`
	WebapiRedocURL    *string `gorm:"column:webapi_redoc_url"`
	WebapiKey         *string `gorm:"column:webapi_key"`
	WebapiHost        *string `gorm:"column:webapi_host"`
	WebapiPort        *int    `gorm:"column:webapi_port"`
	WebapiWorkers     *int    `gorm:"column:webapi_workers"`
	NginxAPIHost      *string `gorm:"column:nginx_api_host"`
	NginxAPIPort      *int    `gorm:"column:nginx_api_port"`
	NginxAPIKey       *string `gorm:"column:nginx_api_key"`
	NginxGUIHost      *string `gorm:"column:nginx_gui_host"`
	NginxGUIPort      *int    `gorm:"column:nginx_gui_port"`
	NginxGUIKey       *string `gorm:"column:nginx_gui_key"`
	GitEmail          *string `gorm:"column:git_email"`
	GitName           *string `gorm:"column:git_name"`
	GitKey            *string `gorm:"column:git_key"`
	HotspodSSID       *string `gorm:"column:hotspod_ssid"`
	HotspodIP         *string `gorm:"column:hotspod_ip"`
	HotspodPass       *string `gorm:"column:hotspod_pass"`
	WifiSSID          *string `gorm:"column:wifi_ssid"`
	WifiIP            *string `gorm:"column:wifi_ip"`
	WifiPass          *string `gorm:"column:wifi_pass"`
	Debug             *bool   `gorm:"column:debug"`
	Log               *bool   `gorm:"column:log"`
	Verbose           *bool   `gorm:"column:verbose"`
}

func (Config) TableName() string { return "config" }

type User struct {
	ID       uint `gorm:"primaryKey"`
	Name     *string
	Username *string
	Password *string
	Key      *string `gorm:"column:key"`
	Email    *string
	Phone    *string
	TgID     *string `gorm:"column:tg_id"`
	Enable   *bool
}

func (User) TableName() string { return "user" }

type Zone struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"not null"`
	Name        *string
	Description *string
	Enable      *bool
}

func (Zone) TableName() string { return "zone" }

type Port struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"not null"`
	Name        *string
	Pin         *int
	Port        *int `gorm:"column:port"`
	Value       *int
	Description *string
	Enable      *bool
	Protocol    Protocol `gorm:"type:varchar(8);not null"`
	Type        PortType `gorm:"column:type;type:varchar(4);not null"`
}

func (Port) TableName() string { return "port" }

type Device struct {
	ID          uint    `gorm:"primaryKey"`
	ZoneID      uint    `gorm:"not null"`
	PortID      uint    `gorm:"not null"`
	PowerID     uint    `gorm:"not null"`
	CommandID   uint    `gorm:"not null"`
	Value       int     `gorm:"not null"`
	Tune        int     `gorm:"not null"`
	Date        *string `gorm:"column:date;type:time"`
	Address     *string
	Name        *string
	Description *string
	Enable      *bool
}

func (Device) TableName() string { return "device" }

type DeviceCommand struct {
	ID          uint `gorm:"primaryKey"`
	DeviceID    uint `gorm:"not null"`
	Name        *string
	ValueFrom   *int
	ValueTo     *int
	Delay       *int
	Description *string
	Reload      *bool
	Enable      *bool
	Type        CommandType `gorm:"column:type;type:varchar(7);not null"`
}

func (DeviceCommand) TableName() string { return "device_command" }

type Timer struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"not null"`
	Name        *string
	Description *string
	Enable      *bool
}

func (Timer) TableName() string { return "timer" }

type TimerDevice struct {
	ID          uint `gorm:"primaryKey"`
	TimerID     uint `gorm:"not null"`
	DeviceID    uint `gorm:"not null"`
	CommandID   uint `gorm:"not null"`
	Description *string
	Enable      *bool
}

func (TimerDevice) TableName() string { return "timer_device" }

// TimerItem bounds are free text, e.g. "07:30" or "mon".
type TimerItem struct {
	ID          uint `gorm:"primaryKey"`
	TimerID     uint `gorm:"not null"`
	Name        *string
	ValueFrom   *string
	ValueTo     *string
	Description *string
	Enable      *bool
}

func (TimerItem) TableName() string { return "timer_item" }

type TimerLimit struct {
	ID            uint `gorm:"primaryKey"`
	DeviceID      uint `gorm:"not null"`
	CommandFromID uint `gorm:"not null"`
	CommandToID   uint `gorm:"not null"`
	Value         int  `gorm:"not null"`
	Description   *string
	Enable        *bool
}

func (TimerLimit) TableName() string { return "timer_limit" }

type ZoneCommand struct {
	ID          uint `gorm:"primaryKey"`
	ZoneID      uint `gorm:"not null"`
	Name        *string
	Description *string
	Enable      *bool
}

func (ZoneCommand) TableName() string { return "zone_command" }

type ZoneCommandAction struct {
	ID            uint `gorm:"primaryKey"`
	Name          *string
	ZoneCommandID uint `gorm:"not null"`
	DeviceID      uint `gorm:"not null"`
	CommandID     *uint
	Description   *string
	Enable        *bool
}

func (ZoneCommandAction) TableName() string { return "zone_command_action" }

// ZoneCommandIf is a condition a zone command checks before its actions run.
type ZoneCommandIf struct {
	ID            uint `gorm:"primaryKey"`
	Name          *string
	ZoneCommandID uint `gorm:"not null"`
	DeviceID      uint `gorm:"not null"`
	CommandID     uint `gorm:"not null"`
	Description   *string
	Enable        *bool
}

func (ZoneCommandIf) TableName() string { return "zone_command_if" }

// Log is an audit record. Date is kept as the text the writer produced.
type Log struct {
	ID     uint `gorm:"primaryKey"`
	Date   *string
	Name   *string
	Status *bool
	Data   *string
}

func (Log) TableName() string { return "log" }

// SchemaMigration is one applied migration, kept by the migrate runner.
type SchemaMigration struct {
	Version   uint   `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"not null"`
	AppliedAt time.Time
}

func (SchemaMigration) TableName() string { return "schema_migrations" }

// Ptr returns a pointer to v, for filling the nullable columns.
func Ptr[T any](v T) *T {
	return &v
}
