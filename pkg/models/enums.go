package models

import (
	"database/sql/driver"
	"fmt"
	"slices"
)

// Protocol is port.protocol, stored as text of at most 8 characters.
type Protocol string

const (
	ProtocolGPIO    Protocol = "gpio"
	ProtocolI2C     Protocol = "i2c"
	ProtocolSPI     Protocol = "spi"
	ProtocolUART    Protocol = "uart"
	ProtocolOneWire Protocol = "onewire"
	ProtocolModbus  Protocol = "modbus"
	ProtocolMQTT    Protocol = "mqtt"
	ProtocolHTTP    Protocol = "http"
)

var Protocols = []Protocol{
	ProtocolGPIO, ProtocolI2C, ProtocolSPI, ProtocolUART,
	ProtocolOneWire, ProtocolModbus, ProtocolMQTT, ProtocolHTTP,
}

func (p Protocol) Valid() bool { return slices.Contains(Protocols, p) }

func (p Protocol) Value() (driver.Value, error) { return enumValue("protocol", p, p.Valid()) }

func (p *Protocol) Scan(src any) error { return enumScan("protocol", src, p, Protocol.Valid) }

// PortType is port.type, stored as text of at most 4 characters.
type PortType string

const (
	PortTypeIn  PortType = "in"
	PortTypeOut PortType = "out"
	PortTypePWM PortType = "pwm"
	PortTypeADC PortType = "adc"
)

var PortTypes = []PortType{PortTypeIn, PortTypeOut, PortTypePWM, PortTypeADC}

func (t PortType) Valid() bool { return slices.Contains(PortTypes, t) }

func (t PortType) Value() (driver.Value, error) { return enumValue("port type", t, t.Valid()) }

func (t *PortType) Scan(src any) error { return enumScan("port type", src, t, PortType.Valid) }

// CommandType is device_command.type, stored as text of at most 7 characters.
type CommandType string

const (
	CommandTypeSwitch  CommandType = "switch"
	CommandTypeToggle  CommandType = "toggle"
	CommandTypeRange   CommandType = "range"
	CommandTypeTrigger CommandType = "trigger"
	CommandTypeRead    CommandType = "read"
)

var CommandTypes = []CommandType{
	CommandTypeSwitch, CommandTypeToggle, CommandTypeRange, CommandTypeTrigger, CommandTypeRead,
}

func (c CommandType) Valid() bool { return slices.Contains(CommandTypes, c) }

func (c CommandType) Value() (driver.Value, error) { return enumValue("command type", c, c.Valid()) }

func (c *CommandType) Scan(src any) error { return enumScan("command type", src, c, CommandType.Valid) }

func enumValue[T ~string](kind string, v T, valid bool) (driver.Value, error) {
	if !valid {
		return nil, fmt.Errorf("invalid %s %q", kind, string(v))
	}
	return string(v), nil
}

func enumScan[T ~string](kind string, src any, dst *T, valid func(T) bool) error {
	var v T
	switch s := src.(type) {
	case string:
		v = T(s)
	case []byte:
		v = T(s)
	default:
		return fmt.Errorf("cannot scan %T into %s", src, kind)
	}
	if !valid(v) {
		return fmt.Errorf("invalid %s %q", kind, string(v))
	}
	*dst = v
	return nil
}
