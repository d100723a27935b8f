package extractor

import (
	"context"
	"fmt"
	"os"

	"dvine-asset/config"
	"dvine-asset/utils"
	cloud "dvine-asset/utils/cloud"
	"dvine-asset/utils/dvcodecs/anm"
	"dvine-asset/utils/dvcodecs/arc"
	"dvine-asset/utils/dvcodecs/fnt"
	"dvine-asset/utils/dvcodecs/itm"
	"dvine-asset/utils/dvcodecs/pal"
	"dvine-asset/utils/dvcodecs/se"
	"dvine-asset/utils/dvcodecs/syscfg"
	"dvine-asset/utils/exporter"
	dvineLogger "dvine-asset/utils/logger"
)

var logger = dvineLogger.NewLogger("DvineAssetExtractor", "INFO", nil)

// DvineAssetExtractor decodes the game data files named in the
// configuration and writes the results under the export directory.
type DvineAssetExtractor struct {
	ctx       context.Context
	provider  arc.Provider
	outputDir string
	preset    anm.Config
}

func NewDvineAssetExtractor(ctx context.Context, preset anm.Config) *DvineAssetExtractor {
	return &DvineAssetExtractor{
		ctx:       ctx,
		provider:  arc.NewDirProvider(config.Cfg.Game.DataDir),
		outputDir: config.Cfg.Export.OutputDir,
		preset:    preset,
	}
}

// LoadAnimations parses the animation container from the data directory.
func (e *DvineAssetExtractor) LoadAnimations() (*anm.File, error) {
	data, err := e.provider.ReadFile(config.Cfg.Game.AnimationFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.Cfg.Game.AnimationFile, err)
	}
	file, err := anm.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", config.Cfg.Game.AnimationFile, err)
	}
	return file, nil
}

// LoadEffects parses the sound effect bank from the data directory.
func (e *DvineAssetExtractor) LoadEffects() (*se.Bank, error) {
	data, err := e.provider.ReadFile(config.Cfg.Game.EffectFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.Cfg.Game.EffectFile, err)
	}
	bank, err := se.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", config.Cfg.Game.EffectFile, err)
	}
	return bank, nil
}

func (e *DvineAssetExtractor) exportAnimations(summary *DvineExtractSummary) error {
	file, err := e.LoadAnimations()
	if err != nil {
		return err
	}
	sequences := make([]exporter.SequenceJSON, 0, file.Index.Len())
	for id := range file.Slots() {
		seq, err := file.Sequence(id, e.preset)
		if err != nil {
			logger.Warnf("Skipping animation %d: %v", id, err)
			summary.Failed++
			continue
		}
		sequences = append(sequences, exporter.SequenceToJSON(id, *seq))
	}
	path, err := exporter.ExportJSON(sequences, e.outputDir, "animations.json")
	if err != nil {
		return err
	}
	summary.Animations = len(sequences)
	summary.Files = append(summary.Files, path)
	logger.Infof("Exported %d animation sequences", len(sequences))
	return nil
}

func (e *DvineAssetExtractor) exportEffects(summary *DvineExtractSummary) error {
	bank, err := e.LoadEffects()
	if err != nil {
		return err
	}
	infos := make([]exporter.EffectJSON, 0, bank.Index.Len())
	for result := range bank.DecodeAll() {
		if result.Err != nil {
			logger.Warnf("Skipping effect %d: %v", result.ID, result.Err)
			summary.Failed++
			continue
		}
		path, err := exporter.ExportSoundWav(result.Sound, e.outputDir)
		if err != nil {
			logger.Warnf("Failed to write effect %d: %v", result.ID, err)
			summary.Failed++
			continue
		}
		infos = append(infos, exporter.EffectToJSON(result.Sound))
		summary.Files = append(summary.Files, path)
	}
	path, err := exporter.ExportJSON(infos, e.outputDir, "effects.json")
	if err != nil {
		return err
	}
	summary.Effects = len(infos)
	summary.Files = append(summary.Files, path)
	logger.Infof("Exported %d sound effects", len(infos))
	return nil
}

func (e *DvineAssetExtractor) exportFont(summary *DvineExtractSummary) error {
	data, err := e.provider.ReadFile(config.Cfg.Game.FontFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", config.Cfg.Game.FontFile, err)
	}
	font, err := fnt.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", config.Cfg.Game.FontFile, err)
	}
	cols := config.Cfg.Export.GlyphSheetColumns
	if cols <= 0 {
		cols = 16
	}
	path, err := exporter.ExportImage(font.Sheet(cols), e.outputDir, "font", config.Cfg.Export.ConvertImagesToWebp)
	if err != nil {
		return err
	}
	summary.Files = append(summary.Files, path)
	logger.Infof("Exported font sheet with %d glyphs", font.GlyphCount())
	return nil
}

func (e *DvineAssetExtractor) exportItems(summary *DvineExtractSummary) error {
	data, err := e.provider.ReadFile(config.Cfg.Game.ItemFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", config.Cfg.Game.ItemFile, err)
	}
	items, err := itm.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", config.Cfg.Game.ItemFile, err)
	}
	path, err := exporter.ExportJSON(exporter.ItemsToJSON(items), e.outputDir, "items.json")
	if err != nil {
		return err
	}
	summary.Files = append(summary.Files, path)
	logger.Infof("Exported %d items", len(items))
	return nil
}

func (e *DvineAssetExtractor) exportPalette(summary *DvineExtractSummary) error {
	data, err := e.provider.ReadFile(config.Cfg.Game.PaletteFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", config.Cfg.Game.PaletteFile, err)
	}
	palette, err := pal.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", config.Cfg.Game.PaletteFile, err)
	}
	path, err := exporter.ExportImage(pal.Swatch(palette, 16), e.outputDir, "palette", config.Cfg.Export.ConvertImagesToWebp)
	if err != nil {
		return err
	}
	summary.Files = append(summary.Files, path)
	return nil
}

func (e *DvineAssetExtractor) logSysConfig() {
	data, err := e.provider.ReadFile(config.Cfg.Game.SysConfigFile)
	if err != nil {
		logger.Debugf("No system config file: %v", err)
		return
	}
	settings, err := syscfg.Parse(data)
	if err != nil {
		logger.Warnf("Failed to parse %s: %v", config.Cfg.Game.SysConfigFile, err)
		return
	}
	logger.Infof("System config: window mode %d, BGM %d, SE %d, last save slot %d",
		settings.WindowMode, settings.BGMVolume, settings.SEVolume, settings.LastSaveSlot)
}

// Run performs one full extraction pass over every enabled asset kind.
// Individual asset failures are logged and counted; a missing or
// unreadable container fails the pass.
func (e *DvineAssetExtractor) Run() (*DvineExtractSummary, error) {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	summary := &DvineExtractSummary{}
	if config.Cfg.Export.DecodeAnimations {
		if err := e.exportAnimations(summary); err != nil {
			return nil, err
		}
	}
	if config.Cfg.Export.DecodeEffects {
		if err := e.exportEffects(summary); err != nil {
			return nil, err
		}
	}
	if config.Cfg.Export.ExportFont {
		if err := e.exportFont(summary); err != nil {
			return nil, err
		}
	}
	if config.Cfg.Export.ExportItems {
		if err := e.exportItems(summary); err != nil {
			return nil, err
		}
	}
	if config.Cfg.Export.ExportPalette {
		if err := e.exportPalette(summary); err != nil {
			return nil, err
		}
	}
	e.logSysConfig()

	// Runs before WebP was enabled leave .png files behind that would
	// otherwise get uploaded alongside the fresh .webp outputs.
	if config.Cfg.Export.ConvertImagesToWebp {
		stale, err := utils.FindFilesByExtension(e.outputDir, ".png")
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", e.outputDir, err)
		}
		for _, pngFile := range stale {
			if err := os.Remove(pngFile); err != nil {
				logger.Warnf("Failed to remove stale PNG %s: %v", pngFile, err)
			}
		}
	}

	if config.Cfg.Export.UploadToCloud && len(summary.Files) > 0 {
		exportedFiles, err := utils.ScanAllFiles(e.outputDir)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s for upload: %w", e.outputDir, err)
		}
		logger.Infof("Found %d files to upload from %s", len(exportedFiles), e.outputDir)
		if err := cloud.UploadToAllStorages(exportedFiles, e.outputDir, config.Cfg.Export.RemoveLocalAfterUpload); err != nil {
			return nil, fmt.Errorf("failed to upload files from %s: %w", e.outputDir, err)
		}
	}
	return summary, nil
}

// FetchGameData downloads the configured data files before extraction.
// It is a no-op when no download mirror is configured.
func FetchGameData(ctx context.Context) error {
	if config.Cfg.Game.DownloadBaseURL == "" || len(config.Cfg.Game.DownloadFiles) == 0 {
		return nil
	}
	fetcher := NewDvineDataFetcher(ctx, config.Cfg.Game.DownloadBaseURL,
		config.Cfg.Game.DataDir, config.Cfg.Proxy, config.Cfg.ConcurrentDownloads)
	defer fetcher.Close()
	return fetcher.FetchAll(config.Cfg.Game.DownloadFiles)
}
