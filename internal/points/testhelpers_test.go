package points

import "github.com/npidgeon/Heatmap/internal/config"

func configAWS(id, secret string) config.AWSConfig {
	return config.AWSConfig{AccessKeyID: id, SecretAccessKey: secret, Region: "us-east-1"}
}

func configS3(bucket, key string) config.S3Config {
	return config.S3Config{BucketName: bucket, FileKey: key}
}
