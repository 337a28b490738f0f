package config

import (
	"go.akpain.net/cfger"
)

type Config struct {
	HTTPAddress   string
	MongoDSN      string
	MongoDatabase string
	RedisAddr     string

	// AdminToken is the shared secret the admin console signs in with.
	AdminToken string

	// BlobBackend selects "s3" or "local".
	BlobBackend string
	S3Region    string
	S3Bucket    string
	// MediaBaseURL is where uploaded images resolve publicly: the bucket
	// endpoint for s3, the site's own origin for local.
	MediaBaseURL string
	BadgerPath   string
}

func Get() (*Config, error) {
	cl := cfger.New()
	var conf = &Config{
		HTTPAddress:   cl.GetEnv("GRND_HTTP_ADDR").WithDefault(":8094").AsString(),
		MongoDSN:      cl.GetEnv("GRND_MONGO_DSN").WithDefault("mongodb://localhost:27017").AsString(),
		MongoDatabase: cl.GetEnv("GRND_MONGO_DATABASE").WithDefault("grn").AsString(),
		RedisAddr:     cl.GetEnv("GRND_REDIS_ADDR").WithDefault("localhost:6379").AsString(),
		AdminToken:    cl.GetEnv("GRND_ADMIN_TOKEN").Required().AsString(),
		BlobBackend:   cl.GetEnv("GRND_BLOB_BACKEND").WithDefault("local").AsString(),
		S3Region:      cl.GetEnv("GRND_S3_REGION").AsString(),
		S3Bucket:      cl.GetEnv("GRND_S3_BUCKET").AsString(),
		MediaBaseURL:  cl.GetEnv("GRND_MEDIA_BASE_URL").WithDefault("http://localhost:8094").AsString(),
		BadgerPath:    cl.GetEnv("GRND_BADGER_PATH").WithDefault("./media-data").AsString(),
	}
	return conf, nil
}
