package config

import (
	"os"

	"gopkg.in/yaml.v3"

	dvineLogger "dvine-asset/utils/logger"
)

type BackendConfig struct {
	Host                     string `yaml:"host"`
	Port                     int    `yaml:"port"`
	SSL                      bool   `yaml:"ssl"`
	SSLCert                  string `yaml:"ssl_cert"`
	SSLKey                   string `yaml:"ssl_key"`
	LogLevel                 string `yaml:"log_level"`
	MainLogFile              string `yaml:"main_log_file"`
	AccessLog                string `yaml:"access_log"`
	AccessLogPath            string `yaml:"access_log_path"`
	EnableAuthorization      bool   `yaml:"enable_authorization,omitempty"`
	AcceptUserAgentPrefix    string `yaml:"accept_user_agent_prefix,omitempty"`
	AcceptAuthorizationToken string `yaml:"accept_authorization_token,omitempty"`
}

// GameConfig names the data files the decoder works on. Files are
// resolved inside DataDir through the loose-file provider.
type GameConfig struct {
	DataDir         string   `yaml:"data_dir"`
	AnimationFile   string   `yaml:"animation_file,omitempty"`
	EffectFile      string   `yaml:"effect_file,omitempty"`
	FontFile        string   `yaml:"font_file,omitempty"`
	ItemFile        string   `yaml:"item_file,omitempty"`
	PaletteFile     string   `yaml:"palette_file,omitempty"`
	SysConfigFile   string   `yaml:"sys_config_file,omitempty"`
	DownloadBaseURL string   `yaml:"download_base_url,omitempty"`
	DownloadFiles   []string `yaml:"download_files,omitempty"`
}

type ExportConfig struct {
	OutputDir              string `yaml:"output_dir"`
	Preset                 string `yaml:"preset,omitempty"`
	DecodeAnimations       bool   `yaml:"decode_animations,omitempty"`
	DecodeEffects          bool   `yaml:"decode_effects,omitempty"`
	ExportFont             bool   `yaml:"export_font,omitempty"`
	ExportItems            bool   `yaml:"export_items,omitempty"`
	ExportPalette          bool   `yaml:"export_palette,omitempty"`
	GlyphSheetColumns      int    `yaml:"glyph_sheet_columns,omitempty"`
	ConvertImagesToWebp    bool   `yaml:"convert_images_to_webp,omitempty"`
	UploadToCloud          bool   `yaml:"upload_to_cloud,omitempty"`
	RemoveLocalAfterUpload bool   `yaml:"remove_local_after_upload,omitempty"`
}

type RemoteStorageConfig struct {
	Type    string   `yaml:"type"`
	Base    string   `yaml:"base"`
	Program string   `yaml:"program"`
	Args    []string `yaml:"args"`
}

type Config struct {
	Proxy               string                `yaml:"proxy,omitempty"`
	ConcurrentDownloads int                   `yaml:"concurrent_downloads,omitempty"`
	ConcurrentUploads   int                   `yaml:"concurrent_uploads,omitempty"`
	Backend             BackendConfig         `yaml:"backend,omitempty"`
	Game                GameConfig            `yaml:"game"`
	Export              ExportConfig          `yaml:"export"`
	RemoteStorages      []RemoteStorageConfig `yaml:"remote_storages,omitempty"`
}

var Version = "v1.2.0"
var Cfg Config

func init() {
	logger := dvineLogger.NewLogger("ConfigLoader", "DEBUG", nil)
	f, err := os.Open("dvine-asset-configs.yaml")
	if err != nil {
		logger.Errorf("Failed to open config file: %v", err)
		os.Exit(1)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&Cfg); err != nil {
		logger.Errorf("Failed to parse config: %v", err)
		os.Exit(1)
	}

	if Cfg.Game.AnimationFile == "" {
		Cfg.Game.AnimationFile = "SPRITE.ANM"
	}
	if Cfg.Game.EffectFile == "" {
		Cfg.Game.EffectFile = "SOUND.SE"
	}
	if Cfg.Game.FontFile == "" {
		Cfg.Game.FontFile = "FONT.FNT"
	}
	if Cfg.Game.ItemFile == "" {
		Cfg.Game.ItemFile = "ITEM.ITM"
	}
	if Cfg.Game.PaletteFile == "" {
		Cfg.Game.PaletteFile = "MAIN.PAL"
	}
	if Cfg.Game.SysConfigFile == "" {
		Cfg.Game.SysConfigFile = "SYSTEM.CFG"
	}
}
