// Package database handles the connection to the optional catalog database.
//
// It wraps GORM with the MySQL driver. The attachment catalog records which
// keys were stored and where they came from; the storage adapter itself never
// touches the database.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Running without catalog", zap.Error(err))
//	}
package database
