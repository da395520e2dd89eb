package config

// Config выбирает источник данных: база, удалённый документ или локальный файл.
type Config struct {
	DBDsn    string
	DataURL  string
	DataFile string
}
