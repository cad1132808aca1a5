package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/virtops/proxmox-client/pkg/proxmox"
	"github.com/virtops/proxmox-client/pkg/secrets"
	"github.com/virtops/proxmox-client/pkg/utils"
)

// Usage is printed when the arguments do not form a valid invocation.
const Usage = `usage: pvectl <get|put|post|delete> <path> [key=value ...]

examples:
  pvectl get /nodes
  pvectl get /nodes/pve1/qemu
  pvectl post /pools poolid=dev comment="dev pool"
  pvectl delete /pools/dev
`

// Run executes one verb against the configured server and writes the rendered
// response to out.
func Run(ctx context.Context, logger *zap.Logger, cfg *Config, args []string, out io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf("missing verb or path\n%s", Usage)
	}
	verb := strings.ToLower(args[0])
	switch verb {
	case "get", "put", "post", "delete":
	default:
		return fmt.Errorf("unknown verb %q\n%s", verb, Usage)
	}
	path := args[1]
	params, err := parseParams(args[2:])
	if err != nil {
		return err
	}

	src, err := credentialSource(ctx, logger, cfg)
	if err != nil {
		return err
	}

	client, err := proxmox.Authenticate(ctx, logger, src,
		proxmox.WithResponseType(cfg.ResponseType),
		proxmox.WithTLSVerify(cfg.TLSVerify),
		proxmox.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck
	logger.Info("authenticated",
		zap.String("host", client.Hostname()),
		zap.String("user", client.Token().Username))

	var resp *proxmox.Response
	switch verb {
	case "get":
		resp, err = client.Get(ctx, path, params)
	case "put":
		resp, err = client.Put(ctx, path, params)
	case "post":
		resp, err = client.Post(ctx, path, params)
	case "delete":
		resp, err = client.Delete(ctx, path, params)
	}
	if err != nil {
		return err
	}

	return printResponse(out, resp)
}

// credentialSource builds the resolver input: a secret-backed mapping when
// PVE_SECRET_NAME is set, otherwise the PVE_* environment values.
func credentialSource(ctx context.Context, logger *zap.Logger, cfg *Config) (any, error) {
	if cfg.SecretName != "" {
		provider, err := secrets.NewAWSProvider(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		cached := secrets.NewCached(provider, cfg.SecretTTL)
		mapping, err := cached.GetSecret(ctx, cfg.SecretName)
		if err != nil {
			return nil, err
		}
		logger.Info("credentials loaded from secret",
			zap.String("secret", cfg.SecretName),
			zap.String("user", utils.MaskSecret(mapping["username"])))
		return mapping, nil
	}

	return proxmox.Credential{
		Hostname: cfg.Hostname,
		Username: cfg.Username,
		Password: cfg.Password,
		Realm:    cfg.Realm,
		Port:     cfg.Port,
	}, nil
}

// parseParams turns key=value arguments into a params mapping.
func parseParams(args []string) (map[string]string, error) {
	if len(args) == 0 {
		return nil, nil
	}
	params := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("malformed parameter %q, want key=value", arg)
		}
		params[k] = v
	}
	return params, nil
}

func printResponse(out io.Writer, resp *proxmox.Response) error {
	switch {
	case resp.DataURI != "":
		_, err := fmt.Fprintln(out, resp.DataURI)
		return err
	case resp.Data != nil:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp.Data)
	default:
		_, err := fmt.Fprintln(out, resp.Text())
		return err
	}
}
