package testdata

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/jask/sshmgr/internal/database/repository"
)

// Repos bundles repos used by Seed.
type Repos struct {
	Profiles *repository.ProfileRepo
	Groups   *repository.GroupRepo
}

// Fixed rows every seeded store contains, in insertion order.
var Fixed = []repository.ProfileFields{
	{Group: "infra", Name: "db1", Host: "10.0.0.5", Port: 22, User: "root", Secret: "x", Protocol: repository.ProtocolSSH},
	{Group: "infra", Name: "files", Host: "10.0.0.6", Port: 2222, User: "backup", Protocol: repository.ProtocolSFTP},
	{Group: "web", Name: "edge", Host: "edge.example.com", Port: 22, User: "deploy", Protocol: repository.ProtocolSSH},
	{Name: "laptop", Host: "192.168.1.20", Port: 22, User: "me", Protocol: repository.ProtocolSSH},
}

// EmptyGroup is registered but holds no profiles.
const EmptyGroup = "staging"

// Seed creates the fixed profiles, registers EmptyGroup and adds extra
// random web hosts.
func Seed(ctx context.Context, repos Repos, extra int) ([]int64, error) {
	var ids []int64
	for _, f := range Fixed {
		id, err := repos.Profiles.Create(ctx, f)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := repos.Groups.Add(ctx, EmptyGroup); err != nil {
		return nil, err
	}

	r := rand.New(rand.NewSource(1))
	users := []string{"admin", "ubuntu", "ec2-user", "deploy"}
	for i := 0; i < extra; i++ {
		f := repository.ProfileFields{
			Group:    "web",
			Name:     fmt.Sprintf("web%02d", i+1),
			Host:     fmt.Sprintf("10.1.%d.%d", r.Intn(255), r.Intn(254)+1),
			Port:     repository.DefaultPort,
			User:     users[r.Intn(len(users))],
			Protocol: repository.ProtocolSSH,
		}
		id, err := repos.Profiles.Create(ctx, f)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
