package config

import (
	"errors"
	"fmt"
	"time"
)

// MaxIngredientsLimit is the most ingredient names one analysis may carry.
const MaxIngredientsLimit = 50

// AnalysisConfig tunes the ingredient analysis pipeline.
type AnalysisConfig struct {
	MaxIngredients      int     `toml:"max_ingredients"`
	MaxTextLength       int     `toml:"max_text_length"`
	ClassifyInterval    string  `toml:"classify_interval"`
	CallTimeout         string  `toml:"call_timeout"`
	ParseTemperature    float64 `toml:"parse_temperature"`
	ClassifyTemperature float64 `toml:"classify_temperature"`
	ParseMaxTokens      int     `toml:"parse_max_tokens"`
	ClassifyMaxTokens   int     `toml:"classify_max_tokens"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	MaxBatchSize        int     `toml:"max_batch_size"`
	BatchConcurrency    int     `toml:"batch_concurrency"`
}

// ClassifyIntervalDuration is the minimum gap between two classifier calls.
func (c *AnalysisConfig) ClassifyIntervalDuration() time.Duration {
	return duration(c.ClassifyInterval)
}

// CallTimeoutDuration bounds a single text-generation call.
func (c *AnalysisConfig) CallTimeoutDuration() time.Duration {
	return duration(c.CallTimeout)
}

func (c *AnalysisConfig) Finalize() error {
	c.defaults()

	envInt("HALALCHECK_ANALYSIS_MAX_INGREDIENTS", &c.MaxIngredients)
	envInt("HALALCHECK_ANALYSIS_MAX_TEXT_LENGTH", &c.MaxTextLength)
	envString("HALALCHECK_ANALYSIS_CLASSIFY_INTERVAL", &c.ClassifyInterval)
	envString("HALALCHECK_ANALYSIS_CALL_TIMEOUT", &c.CallTimeout)
	envFloat("HALALCHECK_ANALYSIS_SIMILARITY_THRESHOLD", &c.SimilarityThreshold)
	envInt("HALALCHECK_ANALYSIS_MAX_BATCH_SIZE", &c.MaxBatchSize)
	envInt("HALALCHECK_ANALYSIS_BATCH_CONCURRENCY", &c.BatchConcurrency)

	return c.validate()
}

func (c *AnalysisConfig) Merge(overlay *AnalysisConfig) {
	mergeNumber(&c.MaxIngredients, overlay.MaxIngredients)
	mergeNumber(&c.MaxTextLength, overlay.MaxTextLength)
	mergeString(&c.ClassifyInterval, overlay.ClassifyInterval)
	mergeString(&c.CallTimeout, overlay.CallTimeout)
	mergeNumber(&c.ParseTemperature, overlay.ParseTemperature)
	mergeNumber(&c.ClassifyTemperature, overlay.ClassifyTemperature)
	mergeNumber(&c.ParseMaxTokens, overlay.ParseMaxTokens)
	mergeNumber(&c.ClassifyMaxTokens, overlay.ClassifyMaxTokens)
	mergeNumber(&c.SimilarityThreshold, overlay.SimilarityThreshold)
	mergeNumber(&c.MaxBatchSize, overlay.MaxBatchSize)
	mergeNumber(&c.BatchConcurrency, overlay.BatchConcurrency)
}

func (c *AnalysisConfig) defaults() {
	positive := func(dst *int, def int) {
		if *dst <= 0 {
			*dst = def
		}
	}
	positive(&c.MaxIngredients, MaxIngredientsLimit)
	positive(&c.MaxTextLength, 10000)
	positive(&c.ParseMaxTokens, 1000)
	positive(&c.ClassifyMaxTokens, 500)
	positive(&c.MaxBatchSize, 20)
	positive(&c.BatchConcurrency, 4)

	if c.ClassifyInterval == "" {
		c.ClassifyInterval = "100ms"
	}
	if c.CallTimeout == "" {
		c.CallTimeout = "30s"
	}
	if c.ParseTemperature == 0 {
		c.ParseTemperature = 0.1
	}
	if c.ClassifyTemperature == 0 {
		c.ClassifyTemperature = 0.1
	}
	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = 0.7
	}
}

func (c *AnalysisConfig) validate() error {
	var errs []error
	if c.MaxIngredients < 1 || c.MaxIngredients > MaxIngredientsLimit {
		errs = append(errs, fmt.Errorf("max_ingredients must be between 1 and %d", MaxIngredientsLimit))
	}
	if c.MaxTextLength < 1 {
		errs = append(errs, errors.New("max_text_length must be positive"))
	}
	if c.MaxBatchSize < 1 {
		errs = append(errs, errors.New("max_batch_size must be positive"))
	}
	if c.BatchConcurrency < 1 {
		errs = append(errs, errors.New("batch_concurrency must be positive"))
	}
	if err := checkDuration("classify_interval", c.ClassifyInterval); err != nil {
		errs = append(errs, err)
	}
	if d, err := time.ParseDuration(c.CallTimeout); err != nil || d <= 0 {
		errs = append(errs, fmt.Errorf("invalid call_timeout: %q", c.CallTimeout))
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		errs = append(errs, errors.New("similarity_threshold must be in (0, 1]"))
	}
	return errors.Join(errs...)
}
