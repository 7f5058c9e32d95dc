package controller

import (
	"go.trai.ch/precheckout/internal/adapters/daemon"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/zerr"
	"google.golang.org/protobuf/types/known/structpb"
)

// EncodeRequest converts req to its wire form. Text fields go through
// daemon.Text, so build variables need not be UTF-8.
func EncodeRequest(req domain.BuildRequest) *structpb.Struct {
	oneOff := make([]*structpb.Value, 0, len(req.OneOffExecutors))
	for _, e := range req.OneOffExecutors {
		oneOff = append(oneOff, structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"name":     daemon.Text(e.Name),
			"build_id": daemon.Text(e.BuildID),
		}}))
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"build_id":          daemon.Text(req.BuildID),
		"display_name":      daemon.Text(req.DisplayName),
		"project":           structpb.NewStructValue(encodeProject(req.Project)),
		"executor":          daemon.Text(req.Executor),
		"one_off_executors": structpb.NewListValue(&structpb.ListValue{Values: oneOff}),
		"environment":       daemon.TextMap(req.Environment),
		"node_name":         daemon.Text(req.NodeName),
		"agent_address":     daemon.Text(req.AgentAddress),
	}}
}

func encodeProject(p domain.Project) *structpb.Struct {
	out := &structpb.Struct{Fields: map[string]*structpb.Value{
		"name":         daemon.Text(p.Name),
		"display_name": daemon.Text(p.DisplayName),
	}}
	if p.Parent != nil {
		out.Fields["parent"] = structpb.NewStructValue(encodeProject(*p.Parent))
	}
	return out
}

// fields decodes the text fields of f named by the keys of dst.
func fields(f map[string]*structpb.Value, dst map[string]*string) error {
	for key, ptr := range dst {
		s, err := daemon.TextOf(f[key])
		if err != nil {
			return zerr.With(err, "field", key)
		}
		*ptr = s
	}
	return nil
}

// DecodeRequest converts the wire form back to a request.
func DecodeRequest(msg *structpb.Struct) (domain.BuildRequest, error) {
	f := msg.GetFields()

	project, err := decodeProject(f["project"].GetStructValue())
	if err != nil {
		return domain.BuildRequest{}, err
	}
	if project.Name == "" {
		return domain.BuildRequest{}, zerr.Wrap(domain.ErrMissingProject, "build request has no project")
	}

	var oneOff []domain.Executor
	for _, v := range f["one_off_executors"].GetListValue().GetValues() {
		var e domain.Executor
		if err := fields(v.GetStructValue().GetFields(), map[string]*string{
			"name":     &e.Name,
			"build_id": &e.BuildID,
		}); err != nil {
			return domain.BuildRequest{}, err
		}
		oneOff = append(oneOff, e)
	}

	env, err := daemon.TextMapOf(f["environment"])
	if err != nil {
		return domain.BuildRequest{}, zerr.With(err, "field", "environment")
	}

	req := domain.BuildRequest{
		Project:         project,
		OneOffExecutors: oneOff,
		Environment:     env,
	}
	if err := fields(f, map[string]*string{
		"build_id":      &req.BuildID,
		"display_name":  &req.DisplayName,
		"executor":      &req.Executor,
		"node_name":     &req.NodeName,
		"agent_address": &req.AgentAddress,
	}); err != nil {
		return domain.BuildRequest{}, err
	}
	return req, nil
}

func decodeProject(s *structpb.Struct) (domain.Project, error) {
	var p domain.Project
	if err := fields(s.GetFields(), map[string]*string{
		"name":         &p.Name,
		"display_name": &p.DisplayName,
	}); err != nil {
		return domain.Project{}, err
	}
	if parent := s.GetFields()["parent"].GetStructValue(); parent != nil {
		pp, err := decodeProject(parent)
		if err != nil {
			return domain.Project{}, err
		}
		p.Parent = &pp
	}
	return p, nil
}
