package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"newsroom/internal/config"
)

func TestLoadAPIDefaults(t *testing.T) {
	t.Setenv("NEWSROOM_CONFIG", "")
	t.Setenv("ELASTICSEARCH_ADDR", "")
	t.Setenv("ELASTICSEARCH_INDEX", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("KAFKA_TOPIC", "")
	t.Setenv("BASE_URL", "")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)

	require.Equal(t, "http://elasticsearch:9200", cfg.ElasticsearchAddr)
	require.Equal(t, "items", cfg.ElasticsearchIndex)
	require.Equal(t, "0.0.0.0:8080", cfg.BindAddr)
	require.Len(t, cfg.KafkaBrokers, 1)
	require.Equal(t, "kafka:9092", cfg.KafkaBrokers[0])
	require.Equal(t, "items_pushed", cfg.KafkaTopic)
	require.Equal(t, 25, cfg.DefaultPage)
	require.Equal(t, 200, cfg.MaxPage)
	require.Equal(t, 30*time.Second, cfg.EntitlementCacheTTL)
	require.False(t, cfg.EmbedProductFiltering)
	require.Equal(t, []string{"16-9", "4-3"}, cfg.AllowedRenditions)
}

func TestLoadAPIOverrides(t *testing.T) {
	t.Setenv("NEWSROOM_CONFIG", "")
	t.Setenv("API_BIND_ADDR", ":9090")
	t.Setenv("API_PAGE_SIZE", "15")
	t.Setenv("API_MAX_PAGE_SIZE", "100")
	t.Setenv("ELASTICSEARCH_ADDR", "http://api-es:9200")
	t.Setenv("ELASTICSEARCH_INDEX", "api-index")
	t.Setenv("SITE_NAME", "Custom Newsroom")
	t.Setenv("ENTITLEMENT_CACHE_TTL", "5m")
	t.Setenv("EMBED_PRODUCT_FILTERING", "true")
	t.Setenv("ALLOWED_RENDITIONS", "16-9")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.BindAddr)
	require.Equal(t, 15, cfg.DefaultPage)
	require.Equal(t, 100, cfg.MaxPage)
	require.Equal(t, "http://api-es:9200", cfg.ElasticsearchAddr)
	require.Equal(t, "api-index", cfg.ElasticsearchIndex)
	require.Equal(t, "Custom Newsroom", cfg.SiteName)
	require.Equal(t, 5*time.Minute, cfg.EntitlementCacheTTL)
	require.True(t, cfg.EmbedProductFiltering)
	require.Equal(t, []string{"16-9"}, cfg.AllowedRenditions)
}

func TestLoadAPIRejectsInvalidPaging(t *testing.T) {
	t.Setenv("NEWSROOM_CONFIG", "")
	t.Setenv("API_PAGE_SIZE", "50")
	t.Setenv("API_MAX_PAGE_SIZE", "10")

	_, err := config.LoadAPI()
	require.Error(t, err)
}

func TestLoadAPIFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newsroom.yml")
	data := "site_name: File Newsroom\nbase_url: http://file.test\nkafka_brokers: broker-a:29092,broker-b:29093\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	t.Setenv("NEWSROOM_CONFIG", path)
	t.Setenv("SITE_NAME", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)

	require.Equal(t, "File Newsroom", cfg.SiteName)
	require.Equal(t, "http://file.test", cfg.BaseURL)
	require.Len(t, cfg.KafkaBrokers, 2)
}

func TestLoadAPIEnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newsroom.yml")
	require.NoError(t, os.WriteFile(path, []byte("site_name: File Newsroom\n"), 0o600))

	t.Setenv("NEWSROOM_CONFIG", path)
	t.Setenv("SITE_NAME", "Env Newsroom")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)
	require.Equal(t, "Env Newsroom", cfg.SiteName)
}

func TestLoadWorker(t *testing.T) {
	t.Setenv("NEWSROOM_CONFIG", "")
	t.Setenv("KAFKA_BROKERS", "broker-a:29092")
	t.Setenv("KAFKA_TOPIC", "custom_topic")
	t.Setenv("KAFKA_CONSUMER_GROUP", "custom-group")
	t.Setenv("WORKER_KEYWORD_LIMIT", "12")
	t.Setenv("WORKER_KEYWORD_MIN_LEN", "5")
	t.Setenv("WORKER_BATCH_SIZE", "3")

	cfg, err := config.LoadWorker()
	require.NoError(t, err)

	require.Equal(t, []string{"broker-a:29092"}, cfg.KafkaBrokers)
	require.Equal(t, "custom_topic", cfg.KafkaTopic)
	require.Equal(t, "custom-group", cfg.KafkaConsumer)
	require.Equal(t, 12, cfg.KeywordLimit)
	require.Equal(t, 5, cfg.KeywordMinLength)
	require.Equal(t, 3, cfg.BatchSize)
}

func TestLoadRetention(t *testing.T) {
	t.Setenv("NEWSROOM_CONFIG", "")
	t.Setenv("ELASTICSEARCH_ADDR", "http://ret-es:9200")
	t.Setenv("RETENTION_INTERVAL", "12h")
	t.Setenv("RETENTION_MAX_AGE", "36h")
	t.Setenv("RETENTION_BATCH_SIZE", "123")

	cfg, err := config.LoadRetention()
	require.NoError(t, err)

	require.Equal(t, "http://ret-es:9200", cfg.ElasticsearchAddr)
	require.Equal(t, 12*time.Hour, cfg.Interval)
	require.Equal(t, 36*time.Hour, cfg.MaxAge)
	require.Equal(t, 123, cfg.BatchSize)
}
