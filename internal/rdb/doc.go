// Package rdb is the RDB Gateway: typed read/write access to the
// Equipment, EquipmentLocation, EquipmentStatus and DisplayDeviceInfo
// tables over MariaDB.
//
// Connections are acquired per operation through the shared *sqlx.DB pool
// and released at scope exit — the Gateway holds no long-lived
// transaction. A connect/query failure is returned to the caller, who
// logs and drops the message per spec §7; it never poisons the Gateway
// itself.
package rdb
