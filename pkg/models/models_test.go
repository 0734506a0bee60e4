package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"liyu1981.xyz/home-controller-schema/pkg/common"
	"liyu1981.xyz/home-controller-schema/pkg/db"
	"liyu1981.xyz/home-controller-schema/pkg/schema"
	_ "liyu1981.xyz/home-controller-schema/pkg/testing"
)

func appliedDB(t *testing.T) *gorm.DB {
	t.Helper()
	common.SetTestLoggerNop()

	instance, err := db.Open(db.UseMemorySqliteDialector())
	require.NoError(t, err)
	t.Cleanup(func() { _ = instance.Close() })

	sqlDB, err := instance.SqlDB()
	require.NoError(t, err)
	require.NoError(t, schema.Apply(context.Background(), sqlDB))

	return instance.Conn
}

func TestTableNames_MatchSchema(t *testing.T) {
	names := []string{
		Config{}.TableName(), Device{}.TableName(), DeviceCommand{}.TableName(), Log{}.TableName(),
		Port{}.TableName(), Timer{}.TableName(), TimerDevice{}.TableName(), TimerItem{}.TableName(),
		TimerLimit{}.TableName(), User{}.TableName(), Zone{}.TableName(), ZoneCommand{}.TableName(),
		ZoneCommandAction{}.TableName(), ZoneCommandIf{}.TableName(),
	}
	assert.Equal(t, schema.TableNames(), names)
}

func TestCreateHierarchy(t *testing.T) {
	conn := appliedDB(t)

	user := User{Name: Ptr("Ana"), Username: Ptr("ana"), TgID: Ptr("12345"), Enable: Ptr(true)}
	require.NoError(t, conn.Create(&user).Error)
	assert.NotZero(t, user.ID)

	zone := Zone{UserID: user.ID, Name: Ptr("kitchen"), Enable: Ptr(true)}
	require.NoError(t, conn.Create(&zone).Error)

	port := Port{UserID: user.ID, Name: Ptr("relay 1"), Pin: Ptr(17), Protocol: ProtocolGPIO, Type: PortTypeOut}
	require.NoError(t, conn.Create(&port).Error)

	device := Device{ZoneID: zone.ID, PortID: port.ID, PowerID: 1, CommandID: 1, Value: 0, Tune: 0, Date: Ptr("07:30:00")}
	require.NoError(t, conn.Create(&device).Error)

	command := DeviceCommand{DeviceID: device.ID, Name: Ptr("on"), ValueFrom: Ptr(0), ValueTo: Ptr(1), Type: CommandTypeSwitch}
	require.NoError(t, conn.Create(&command).Error)

	zc := ZoneCommand{ZoneID: zone.ID, Name: Ptr("morning")}
	require.NoError(t, conn.Create(&zc).Error)
	require.NoError(t, conn.Create(&ZoneCommandIf{ZoneCommandID: zc.ID, DeviceID: device.ID, CommandID: command.ID}).Error)
	require.NoError(t, conn.Create(&ZoneCommandAction{ZoneCommandID: zc.ID, DeviceID: device.ID}).Error)

	timer := Timer{UserID: user.ID, Name: Ptr("weekday")}
	require.NoError(t, conn.Create(&timer).Error)
	require.NoError(t, conn.Create(&TimerItem{TimerID: timer.ID, ValueFrom: Ptr("07:00"), ValueTo: Ptr("07:30")}).Error)
	require.NoError(t, conn.Create(&TimerDevice{TimerID: timer.ID, DeviceID: device.ID, CommandID: command.ID}).Error)
	require.NoError(t, conn.Create(&TimerLimit{DeviceID: device.ID, CommandFromID: command.ID, CommandToID: command.ID, Value: 30}).Error)

	require.NoError(t, conn.Create(&Config{Name: Ptr("home"), TimeZone: Ptr("Europe/Lisbon"), WebapiPort: Ptr(8000), Debug: Ptr(false)}).Error)
	require.NoError(t, conn.Create(&Log{Date: Ptr("2024-01-01 10:00:00"), Name: Ptr("boot"), Status: Ptr(true)}).Error)

	var savedPort Port
	require.NoError(t, conn.First(&savedPort, port.ID).Error)
	assert.Equal(t, ProtocolGPIO, savedPort.Protocol)
	assert.Equal(t, PortTypeOut, savedPort.Type)
	assert.Equal(t, 17, *savedPort.Pin)

	var savedAction ZoneCommandAction
	require.NoError(t, conn.First(&savedAction).Error)
	assert.Nil(t, savedAction.CommandID)

	var savedConfig Config
	require.NoError(t, conn.First(&savedConfig).Error)
	assert.Equal(t, "Europe/Lisbon", *savedConfig.TimeZone)
}

func TestCreate_OrphanRowsAccepted(t *testing.T) {
	conn := appliedDB(t)

	// parents 999 don't exist, the schema doesn't enforce references
	assert.NoError(t, conn.Create(&ZoneCommand{ZoneID: 999}).Error)
	assert.NoError(t, conn.Create(&Device{ZoneID: 999, PortID: 999, PowerID: 999, CommandID: 999}).Error)
}

func TestCreate_InvalidEnumRejected(t *testing.T) {
	conn := appliedDB(t)

	err := conn.Create(&Port{UserID: 1, Protocol: "zigbee", Type: PortTypeIn}).Error
	assert.ErrorContains(t, err, `invalid protocol "zigbee"`)

	err = conn.Create(&DeviceCommand{DeviceID: 1}).Error
	assert.ErrorContains(t, err, "invalid command type")

	var count int64
	require.NoError(t, conn.Model(&Port{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestScan_InvalidStoredEnum(t *testing.T) {
	conn := appliedDB(t)

	require.NoError(t, conn.Exec(`INSERT INTO port (user_id, protocol, type) VALUES (1, 'zigbee', 'in')`).Error)

	var port Port
	assert.Error(t, conn.First(&port).Error)
}
