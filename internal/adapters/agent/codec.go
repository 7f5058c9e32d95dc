package agent

import (
	"go.trai.ch/precheckout/internal/adapters/daemon"
	"go.trai.ch/precheckout/internal/core/domain"
	"google.golang.org/protobuf/types/known/structpb"
)

func encodeTempFile(dir, prefix, suffix, content string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"dir":     daemon.Text(dir),
		"prefix":  daemon.Text(prefix),
		"suffix":  daemon.Text(suffix),
		"content": daemon.Text(content),
	}}
}

type tempFileRequest struct {
	dir, prefix, suffix, content string
}

func decodeTempFile(msg *structpb.Struct) (tempFileRequest, error) {
	f := msg.GetFields()
	var req tempFileRequest
	for _, field := range []struct {
		key string
		dst *string
	}{
		{"dir", &req.dir},
		{"prefix", &req.prefix},
		{"suffix", &req.suffix},
		{"content", &req.content},
	} {
		s, err := daemon.TextOf(f[field.key])
		if err != nil {
			return tempFileRequest{}, err
		}
		*field.dst = s
	}
	return req, nil
}

func encodeLaunch(spec domain.LaunchSpec) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"argv": daemon.TextList(spec.Argv),
		"dir":  daemon.Text(spec.Dir),
		"env":  daemon.TextMap(spec.Env),
	}}
}

func decodeLaunch(msg *structpb.Struct) (domain.LaunchSpec, error) {
	f := msg.GetFields()

	argv, err := daemon.TextListOf(f["argv"])
	if err != nil {
		return domain.LaunchSpec{}, err
	}
	dir, err := daemon.TextOf(f["dir"])
	if err != nil {
		return domain.LaunchSpec{}, err
	}
	env, err := daemon.TextMapOf(f["env"])
	if err != nil {
		return domain.LaunchSpec{}, err
	}

	return domain.LaunchSpec{Argv: argv, Dir: dir, Env: env}, nil
}
