// Package camundatest provides an in-memory worker.JobClient that records job replies.
package camundatest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"google.golang.org/grpc"
)

const (
	KindComplete = "complete"
	KindFail     = "fail"
	KindThrow    = "throw"
)

// Command is one reply a handler sent for a job.
type Command struct {
	Kind         string
	JobKey       int64
	ErrorCode    string
	ErrorMessage string
	Retries      int32
	Variables    string
}

// Vars decodes the command's variables document.
func (c Command) Vars() map[string]interface{} {
	vars := map[string]interface{}{}
	if c.Variables != "" {
		_ = json.Unmarshal([]byte(c.Variables), &vars)
	}
	return vars
}

// JobClient answers the three job reply RPCs; any other gateway call panics.
type JobClient struct {
	pb.GatewayClient

	mu       sync.Mutex
	commands []Command
}

func NewJobClient() *JobClient {
	return &JobClient{}
}

// Job builds an activated job with the given key and variables.
func Job(key int64, taskType, variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:       key,
		Type:      taskType,
		Variables: variables,
	}}
}

func noRetry(context.Context, error) bool { return false }

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c, noRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c, noRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c, noRetry)
}

func (c *JobClient) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	c.record(Command{Kind: KindComplete, JobKey: in.JobKey, Variables: in.Variables})
	return &pb.CompleteJobResponse{}, nil
}

func (c *JobClient) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	c.record(Command{Kind: KindFail, JobKey: in.JobKey, ErrorMessage: in.ErrorMessage, Retries: in.Retries})
	return &pb.FailJobResponse{}, nil
}

func (c *JobClient) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	c.record(Command{
		Kind:         KindThrow,
		JobKey:       in.JobKey,
		ErrorCode:    in.ErrorCode,
		ErrorMessage: in.ErrorMessage,
		Variables:    in.Variables,
	})
	return &pb.ThrowErrorResponse{}, nil
}

func (c *JobClient) record(cmd Command) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands = append(c.commands, cmd)
}

// Commands returns every reply sent so far, oldest first.
func (c *JobClient) Commands() []Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Command(nil), c.commands...)
}
