// Package config 提供两类配置能力：
//   - 引擎配置（相似度方法、返回条数、数据来源）的 YAML 加载
//   - Pipeline Node 的配置驱动构建（NodeFactory 的默认注册表）
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nicholaswilven/book-recsys/engine"
)

// FileConfig 是配置文件的顶层结构。
//
// 示例：
//
//	engine:
//	  method: cosine
//	  top_n: 10
//	data:
//	  books: data/Books.csv
//	  ratings: data/Ratings.csv
//	  users: data/Users.csv
//	redis:
//	  addr: localhost:6379
//	  db: 0
type FileConfig struct {
	Engine engine.Config `yaml:"engine"`

	Data struct {
		Books   string `yaml:"books"`
		Ratings string `yaml:"ratings"`
		Users   string `yaml:"users"`
	} `yaml:"data"`

	Redis struct {
		Addr string `yaml:"addr"`
		DB   int    `yaml:"db"`
	} `yaml:"redis"`
}

// Load 从 YAML 文件加载配置。
func Load(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}
