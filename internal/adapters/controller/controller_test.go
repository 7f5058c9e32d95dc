package controller_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/precheckout/internal/adapters/agent"
	"go.trai.ch/precheckout/internal/adapters/controller"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/precheckout/internal/core/ports"
	"go.trai.ch/precheckout/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeHook struct {
	mu      sync.Mutex
	project domain.Project
	node    string
	channel string
	env     map[string]string
	result  domain.SetUpResult
}

func (h *fakeHook) SetUp(ctx context.Context, build ports.Build, node ports.Node, console io.Writer) domain.SetUpResult {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.project = build.Project()
	h.node = node.DisplayName()
	h.env, _ = build.Environment(ctx)
	if ch, err := node.Channel(ctx); err == nil {
		h.channel = ch.ID()
		_ = ch.Close()
	}
	_, _ = fmt.Fprintln(console, "hello from", build.DisplayName())
	return h.result
}

func startController(t *testing.T, hook controller.Hook) *controller.Client {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	dial := func(_ context.Context, node, _ string) (ports.Channel, error) {
		return agent.NewLocal(node), nil
	}

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	controller.NewServer(hook, dial, log).Register(srv)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	client := controller.NewClient(conn)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestClient_SetUp(t *testing.T) {
	hook := &fakeHook{result: domain.SetUpResult{Outcome: domain.OutcomeExecuted, ExitCode: 3}}
	client := startController(t, hook)

	parent := &domain.Project{Name: "matrix", DisplayName: "Matrix"}
	console := &bytes.Buffer{}
	result, err := client.SetUp(t.Context(), domain.BuildRequest{
		BuildID:      "7",
		DisplayName:  "matrix » linux #7",
		Project:      domain.Project{Name: "matrix/os=linux", Parent: parent},
		Executor:     "node-1#0",
		NodeName:     "node-1",
		AgentAddress: domain.LocalAgent,
	}, console)
	require.NoError(t, err)

	assert.Equal(t, domain.SetUpResult{Outcome: domain.OutcomeExecuted, ExitCode: 3}, result)
	assert.Equal(t, "hello from matrix » linux #7\n", console.String())
	assert.Equal(t, domain.Project{Name: "matrix/os=linux", Parent: parent}, hook.project)
	assert.Equal(t, "node-1", hook.node)
	assert.Equal(t, "node-1", hook.channel)
}

func TestClient_SetUpOutcomes(t *testing.T) {
	for _, outcome := range []domain.Outcome{
		domain.OutcomeNoExecutor,
		domain.OutcomeDuplicate,
		domain.OutcomeNotConfigured,
		domain.OutcomeRefused,
	} {
		t.Run(outcome.String(), func(t *testing.T) {
			client := startController(t, &fakeHook{result: domain.SetUpResult{Outcome: outcome}})

			result, err := client.SetUp(t.Context(), domain.BuildRequest{Project: domain.Project{Name: "web"}}, io.Discard)
			require.NoError(t, err)
			assert.Equal(t, outcome, result.Outcome)
		})
	}
}

func TestClient_SetUpMissingProject(t *testing.T) {
	client := startController(t, &fakeHook{})

	_, err := client.SetUp(t.Context(), domain.BuildRequest{BuildID: "1"}, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), codes.InvalidArgument.String())
}

func TestDecodeRequest(t *testing.T) {
	req := domain.BuildRequest{
		BuildID:         "9",
		Project:         domain.Project{Name: "web", DisplayName: "Web"},
		OneOffExecutors: []domain.Executor{{Name: "flyweight", BuildID: "9"}},
		Environment:     map[string]string{"BUILD_NUMBER": "9"},
		AgentAddress:    "tcp://10.0.0.2:7071",
	}

	got, err := controller.DecodeRequest(controller.EncodeRequest(req))
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestDecodeRequest_MissingProject(t *testing.T) {
	_, err := controller.DecodeRequest(controller.EncodeRequest(domain.BuildRequest{BuildID: "1"}))
	require.ErrorIs(t, err, domain.ErrMissingProject)
}


func TestClient_SetUpNonUTF8Text(t *testing.T) {
	hook := &fakeHook{result: domain.SetUpResult{Outcome: domain.OutcomeExecuted}}
	client := startController(t, hook)

	env := map[string]string{
		"LATIN1":          "caf\xe9",
		"RAW\xff":         "ok",
		domain.JobNameVar: "web",
	}
	_, err := client.SetUp(t.Context(), domain.BuildRequest{
		BuildID:     "1",
		Project:     domain.Project{Name: "web", DisplayName: "web \xfe"},
		Environment: env,
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, env, hook.env)
	assert.Equal(t, "web \xfe", hook.project.DisplayName)
}

func TestDecodeRequest_MalformedText(t *testing.T) {
	msg := controller.EncodeRequest(domain.BuildRequest{Project: domain.Project{Name: "web"}})
	msg.Fields["build_id"] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
		"base64": structpb.NewStringValue("%%%"),
	}})

	_, err := controller.DecodeRequest(msg)
	require.ErrorIs(t, err, domain.ErrMalformedMessage)
}
