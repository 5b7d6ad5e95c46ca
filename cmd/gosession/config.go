package main

import (
	"fmt"

	goSession "github.com/MrEthical07/goSession"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// registerConfigFlags adds flags whose names are koanf keys so they overlay the
// config file. Defaults mirror goSession.DefaultConfig.
func registerConfigFlags(fs *pflag.FlagSet) {
	def := goSession.DefaultConfig()
	fs.String("password.algorithm", def.Password.Algorithm, "preferred hash algorithm: bcrypt or argon2id")
	fs.Int("password.bcrypt_cost", def.Password.BcryptCost, "default bcrypt cost")
	fs.String("token.signing_method", def.Token.SigningMethod, "token signing method: hs256, hs384 or hs512")
	fs.String("token.issuer", def.Token.Issuer, "iss claim stamped into and required of tokens")
	fs.Duration("session.ttl", def.Session.TTL, "session lifetime")
	fs.String("cookie.name", def.Cookie.Name, "session cookie name")
}

// loadConfig layers the YAML file at path and then explicit flags over
// goSession.DefaultConfig.
func loadConfig(path string, fs *pflag.FlagSet) (goSession.Config, error) {
	cfg := goSession.DefaultConfig()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return cfg, fmt.Errorf("load flags: %w", err)
		}
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
