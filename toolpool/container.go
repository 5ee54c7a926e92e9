// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package toolpool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

const activateTimeout = 30 * time.Second

// ContainerHandle runs a tool process inside a Docker container. The
// container is created and started on Activate and force-removed on
// Deactivate.
type ContainerHandle struct {
	name  string
	image string
	env   []string
	cmd   []string

	memoryLimit int64
	cpuLimit    int64

	client      *client.Client
	containerID string
}

var _ Handle = (*ContainerHandle)(nil)

// ContainerOption configures a [ContainerHandle].
type ContainerOption func(*ContainerHandle)

// WithDockerClient sets a custom Docker client.
func WithDockerClient(client *client.Client) ContainerOption {
	return func(h *ContainerHandle) {
		h.client = client
	}
}

// WithEnv sets environment variables for the tool process, in KEY=value
// form.
func WithEnv(env []string) ContainerOption {
	return func(h *ContainerHandle) {
		h.env = env
	}
}

// WithCommand overrides the image's default command.
func WithCommand(cmd []string) ContainerOption {
	return func(h *ContainerHandle) {
		h.cmd = cmd
	}
}

// WithMemoryLimit sets the container memory limit in bytes.
func WithMemoryLimit(limit int64) ContainerOption {
	return func(h *ContainerHandle) {
		h.memoryLimit = limit
	}
}

// WithCPULimit sets the container CPU limit in nano CPUs.
func WithCPULimit(limit int64) ContainerOption {
	return func(h *ContainerHandle) {
		h.cpuLimit = limit
	}
}

// NewContainerHandle creates a handle that runs the given image.
func NewContainerHandle(name, imageTag string, opts ...ContainerOption) (*ContainerHandle, error) {
	if name == "" {
		return nil, errors.New("toolpool: container handle needs a name")
	}
	if imageTag == "" {
		return nil, errors.New("toolpool: container handle needs an image")
	}

	h := &ContainerHandle{
		name:        name,
		image:       imageTag,
		memoryLimit: 512 * 1024 * 1024,
		cpuLimit:    1000000000,
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.client == nil {
		c, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
		if err != nil {
			return nil, fmt.Errorf("create Docker client: %w", err)
		}
		h.client = c
	}
	return h, nil
}

// Name implements [Handle].
func (h *ContainerHandle) Name() string { return h.name }

// Activate implements [Handle]. It pulls the image if missing, then
// creates and starts the container.
func (h *ContainerHandle) Activate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, activateTimeout)
	defer cancel()

	if err := h.ensureImage(ctx); err != nil {
		return fmt.Errorf("ensure image %s: %w", h.image, err)
	}

	resp, err := h.client.ContainerCreate(
		ctx,
		&container.Config{
			Image: h.image,
			Cmd:   h.cmd,
			Env:   h.env,
			Tty:   false,
		},
		&container.HostConfig{
			Resources: container.Resources{
				Memory:   h.memoryLimit,
				NanoCPUs: h.cpuLimit,
			},
		},
		nil,
		nil,
		"",
	)
	if err != nil {
		return fmt.Errorf("create container: %w", err)
	}

	if err := h.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		h.client.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return fmt.Errorf("start container: %w", err)
	}

	h.containerID = resp.ID
	return nil
}

// Deactivate implements [Handle]. Removal is forced so a wedged tool
// process cannot block shutdown.
func (h *ContainerHandle) Deactivate(ctx context.Context) error {
	if h.containerID == "" {
		return nil
	}
	err := h.client.ContainerRemove(ctx, h.containerID, container.RemoveOptions{Force: true})
	h.containerID = ""
	return err
}

func (h *ContainerHandle) ensureImage(ctx context.Context) error {
	images, err := h.client.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return err
	}
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == h.image {
				return nil
			}
		}
	}

	reader, err := h.client.ImagePull(ctx, h.image, image.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()

	_, err = io.Copy(io.Discard, reader)
	return err
}
