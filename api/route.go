package api

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"dvine-asset/config"
	"dvine-asset/extractor"
	"dvine-asset/utils/dvcodecs/wav"
	"dvine-asset/utils/exporter"
)

// runExtractor starts a full extraction pass in a goroutine
func runExtractor(preset string) {
	go func() {
		cfg, err := extractor.ParseAnimationPreset(preset)
		if err != nil {
			return
		}
		ext := extractor.NewDvineAssetExtractor(context.Background(), cfg)
		if _, err := ext.Run(); err != nil {
			// errors are already logged by the extractor
			return
		}
	}()
}

// RegisterRoutes registers all API routes
func RegisterRoutes(app *fiber.App) {
	app.Get("/animations", listAnimationsHandler)
	app.Get("/animations/:id", getAnimationHandler)
	app.Get("/effects", listEffectsHandler)
	app.Get("/effects/:id", getEffectHandler)
	app.Post("/extract", extractHandler)
}

// authorize applies the shared authorization gate. It returns a
// non-nil response when the request is rejected.
func authorize(c *fiber.Ctx) error {
	if config.Cfg.Backend.EnableAuthorization {
		if config.Cfg.Backend.AcceptUserAgentPrefix != "" {
			userAgent := c.Get("User-Agent")
			if !strings.HasPrefix(userAgent, config.Cfg.Backend.AcceptUserAgentPrefix) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Invalid User-Agent",
				})
			}
		}

		if config.Cfg.Backend.AcceptAuthorizationToken != "" {
			authHeader := c.Get("Authorization")
			expectedAuth := "Bearer " + config.Cfg.Backend.AcceptAuthorizationToken
			if authHeader != expectedAuth {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Invalid authorization token",
				})
			}
		}
	}
	return nil
}

func listAnimationsHandler(c *fiber.Ctx) error {
	if resp := authorize(c); resp != nil {
		return resp
	}

	ext := extractor.NewDvineAssetExtractor(c.Context(), extractor.ConfiguredPreset())
	file, err := ext.LoadAnimations()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load animation container",
			"error":   err.Error(),
		})
	}

	ids := make([]int, 0, file.Index.Len())
	for id := range file.Slots() {
		ids = append(ids, id)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count":      len(ids),
		"animations": ids,
	})
}

func getAnimationHandler(c *fiber.Ctx) error {
	if resp := authorize(c); resp != nil {
		return resp
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 0 || id > 255 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Animation id must be an integer in 0..255",
		})
	}
	preset, err := extractor.ParseAnimationPreset(c.Query("preset"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	ext := extractor.NewDvineAssetExtractor(c.Context(), preset)
	file, err := ext.LoadAnimations()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load animation container",
			"error":   err.Error(),
		})
	}
	seq, err := file.Sequence(id, preset)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Animation not found",
			"id":      id,
		})
	}
	return c.Status(fiber.StatusOK).JSON(exporter.SequenceToJSON(id, *seq))
}

func listEffectsHandler(c *fiber.Ctx) error {
	if resp := authorize(c); resp != nil {
		return resp
	}

	ext := extractor.NewDvineAssetExtractor(c.Context(), extractor.ConfiguredPreset())
	bank, err := ext.LoadEffects()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load effect bank",
			"error":   err.Error(),
		})
	}

	ids := make([]int, 0, bank.Index.Len())
	for id := range bank.Effects() {
		ids = append(ids, id)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count":   len(ids),
		"effects": ids,
	})
}

func getEffectHandler(c *fiber.Ctx) error {
	if resp := authorize(c); resp != nil {
		return resp
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 0 || id > 255 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Effect id must be an integer in 0..255",
		})
	}

	ext := extractor.NewDvineAssetExtractor(c.Context(), extractor.ConfiguredPreset())
	bank, err := ext.LoadEffects()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load effect bank",
			"error":   err.Error(),
		})
	}
	sound, err := bank.Decode(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Effect not found or undecodable",
			"id":      id,
			"error":   err.Error(),
		})
	}

	wave := wav.FromPCM(sound.PCM, sound.Adpcm.Channels, sound.Adpcm.SampleRate)
	c.Set(fiber.HeaderContentType, "audio/wav")
	return wave.Serialize(c.Response().BodyWriter())
}

// extractHandler triggers a full extraction pass
func extractHandler(c *fiber.Ctx) error {
	if resp := authorize(c); resp != nil {
		return resp
	}

	var payload extractor.DvineExtractPayload
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request payload",
				"error":   err.Error(),
			})
		}
	}
	if _, err := extractor.ParseAnimationPreset(payload.Preset); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	runExtractor(payload.Preset)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Extraction started",
		"preset":  payload.Preset,
	})
}
