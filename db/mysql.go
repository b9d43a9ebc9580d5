package db

import (
	"database/sql"
	"errors"
	"time"

	"lead_scoring/config"

	_ "github.com/go-sql-driver/mysql"
)

// OpenMySQL 使用配置初始化数据库连接池并检查连通性
func OpenMySQL(cfg *config.Config) (*sql.DB, error) {
	if cfg.DB.DSN == "" {
		return nil, errors.New("db: database dsn is not configured")
	}
	conn, err := sql.Open("mysql", cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	// 从配置读取连接池参数，提供默认值保护
	maxOpenConns := cfg.DB.MaxOpenConns
	if maxOpenConns <= 0 {
		maxOpenConns = 10 // 默认最大连接数
	}

	maxIdleConns := cfg.DB.MaxIdleConns
	if maxIdleConns <= 0 {
		maxIdleConns = 2 // 默认最大空闲连接数
	}

	connMaxLifetime := cfg.DB.ConnMaxLifetime
	if connMaxLifetime <= 0 {
		connMaxLifetime = 60 // 默认连接最大生命周期（分钟）
	}

	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetMaxIdleConns(maxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Minute)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
