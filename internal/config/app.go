package config

type AppConfig struct {
	Bot    BotConfig
	Log    LogConfig
	Store  StoreConfig
	Status StatusConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	botCfg, err := LoadBot()
	if err != nil {
		return AppConfig{}, err
	}
	storeCfg, err := LoadStore()
	if err != nil {
		return AppConfig{}, err
	}
	statusCfg, err := LoadStatus()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Bot:    botCfg,
		Log:    logCfg,
		Store:  storeCfg,
		Status: statusCfg,
	}, nil
}
