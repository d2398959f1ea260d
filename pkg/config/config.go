// Package config는 서비스 설정 파일과 환경 변수를 읽어오는 패키지입니다.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config 인터페이스는 설정 값에 액세스하기 위한 메서드를 정의합니다.
type Config interface {
	GetString(key string) string
	GetBool(key string) bool
	IsSet(key string) bool
	// BindEnv는 설정 키에 접두사 없는 환경 변수 이름을 추가로 연결합니다.
	BindEnv(key string, envVars ...string) error
	// Unmarshal은 전체 설정을 구조체로 디코딩합니다. (mapstructure 태그 사용)
	Unmarshal(target interface{}) error
}

type viperConfig struct {
	v *viper.Viper
}

func (c *viperConfig) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *viperConfig) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *viperConfig) IsSet(key string) bool {
	return c.v.IsSet(key)
}

func (c *viperConfig) BindEnv(key string, envVars ...string) error {
	args := append([]string{key}, envVars...)
	return c.v.BindEnv(args...)
}

func (c *viperConfig) Unmarshal(target interface{}) error {
	return c.v.Unmarshal(target)
}

// 설정 디렉토리 경로
const configDir = "configs"

// Load는 서비스 이름에 해당하는 yaml 설정 파일을 로드합니다.
//
// 탐색 순서: $CONFIG_PATH/{service}.yaml → configs/{APP_ENV}/{service}.yaml → configs/example/{service}.yaml
// 환경 변수는 {SERVICE}_{SECTION}_{KEY} 형식으로 파일 값을 덮어씁니다.
func Load(serviceName string) (Config, error) {
	v := viper.New()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	v.SetConfigType("yaml")
	v.SetConfigName(serviceName)

	v.SetEnvPrefix(strings.ToUpper(serviceName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(configDir, env)
	}
	v.AddConfigPath(configPath)

	if err := v.ReadInConfig(); err != nil {
		// 예제 설정으로 한 번 더 시도
		v.AddConfigPath(filepath.Join(configDir, "example"))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("설정 파일 로드 실패: %w", err)
		}
	}

	return &viperConfig{v: v}, nil
}
