// Package gitsource implements a source component that turns a git
// repository's commit log into a trace: one Event message per commit,
// the commit hash/author/summary as payload fields, the author timestamp
// as the default clock snapshot. Grounded on the teacher's repo plug-in
// (go-git usage for opening a repository and walking its history), turned
// from a state-reconciliation step into a message-emitting source.
package gitsource

import (
	"context"
	"io"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/message"
	"github.com/tracekit/tracekit/internal/traceir"
	"github.com/tracekit/tracekit/internal/value"
	"github.com/tracekit/tracekit/pkg/status"
)

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

const errMissingPath = sentinelError("gitsource: params.path is required")

// nanosecondClock is the frequency used for the source's clock class: one
// cycle per nanosecond, so a commit's author Unix-nanosecond timestamp can
// be used directly as a clock snapshot's cycle count.
const nanosecondClock = 1_000_000_000

type iteratorState struct {
	stream *traceir.Stream
	ec     *traceir.EventClass
	clock  *traceir.ClockClass

	commits  object.CommitIter
	limit    int // max commits to emit; only meaningful when hasLimit
	hasLimit bool
	emitted  int

	beginningSent bool
	endSent       bool
}

// NewClass returns a source component class whose message_iterator_next
// emits one StreamBeginning, then one Event per commit reachable from the
// repository's current HEAD (newest first: go-git's default Log traversal
// starts at HEAD and walks back through parents), then StreamEnd, then End.
// Instantiation params:
//
//	path: string, required — path to a local git repository working copy
//	max_commits: int, optional — caps the number of commits emitted
func NewClass(name string) *component.Class {
	return &component.Class{
		Kind: component.KindSource,
		Name: name,
		Methods: component.MethodTable{
			Initialize: func(ctx context.Context, c *component.Component, params value.Value) error {
				_, err := c.AddOutputPort("out")
				return err
			},
			MessageIteratorInitialize: func(ctx context.Context, c *component.Component, port *component.Port) (component.IteratorState, error) {
				path, ok := c.Params.Get("path")
				if !ok {
					return nil, errMissingPath
				}
				repoPath, ok := path.AsString()
				if !ok || repoPath == "" {
					return nil, errMissingPath
				}

				limit := 0
				hasLimit := false
				if maxCommits, ok := c.Params.Get("max_commits"); ok {
					if n, ok := maxCommits.AsSigned(); ok {
						limit = int(n)
						hasLimit = true
					}
				}

				repo, err := git.PlainOpen(repoPath)
				if err != nil {
					return nil, err
				}
				head, err := repo.Head()
				if err != nil {
					return nil, err
				}
				commits, err := repo.Log(&git.LogOptions{From: head.Hash()})
				if err != nil {
					return nil, err
				}

				tc := traceir.NewTraceClass(name)
				sc := traceir.NewStreamClass(0, name+"-commits")
				cc := &traceir.ClockClass{Name: name + "-clock", Frequency: nanosecondClock, OriginIsUnixEpoch: true}
				if err := sc.SetDefaultClockClass(cc); err != nil {
					return nil, err
				}

				payload := traceir.NewStructureFieldClass()
				if err := payload.AppendMember("hash", traceir.NewStringFieldClass()); err != nil {
					return nil, err
				}
				if err := payload.AppendMember("author_name", traceir.NewStringFieldClass()); err != nil {
					return nil, err
				}
				if err := payload.AppendMember("author_email", traceir.NewStringFieldClass()); err != nil {
					return nil, err
				}
				if err := payload.AppendMember("summary", traceir.NewStringFieldClass()); err != nil {
					return nil, err
				}

				ec := traceir.NewEventClass(0, "commit")
				if err := ec.SetPayloadFieldClass(payload); err != nil {
					return nil, err
				}
				if err := sc.AddEventClass(ec); err != nil {
					return nil, err
				}
				if err := tc.AddStreamClass(sc); err != nil {
					return nil, err
				}

				tr, err := traceir.NewTrace(tc)
				if err != nil {
					return nil, err
				}
				stream, err := tr.CreateStream(sc, 0)
				if err != nil {
					return nil, err
				}

				return &iteratorState{stream: stream, ec: ec, clock: cc, commits: commits, limit: limit, hasLimit: hasLimit}, nil
			},
			MessageIteratorNext: func(ctx context.Context, c *component.Component, raw component.IteratorState, capacity int) ([]any, status.Code) {
				st := raw.(*iteratorState)
				if capacity == 0 {
					return nil, status.OK
				}
				if !st.beginningSent {
					st.beginningSent = true
					return []any{message.NewStreamBeginning(st.stream)}, status.OK
				}
				if st.endSent {
					return nil, status.End
				}
				if st.hasLimit && st.emitted >= st.limit {
					st.endSent = true
					return []any{message.NewStreamEnd(st.stream)}, status.OK
				}

				commit, err := st.commits.Next()
				if err == io.EOF {
					st.endSent = true
					return []any{message.NewStreamEnd(st.stream)}, status.OK
				}
				if err != nil {
					return nil, status.Error
				}
				st.emitted++

				ev := st.stream.CreateEvent(st.ec)
				payload := ev.Payload()
				setMember(payload, "hash", commit.Hash.String())
				setMember(payload, "author_name", commit.Author.Name)
				setMember(payload, "author_email", commit.Author.Email)
				setMember(payload, "summary", commit.Message)

				snapshot := traceir.ClockSnapshot{Class: st.clock, Cycles: uint64(commit.Author.When.UnixNano())}
				m, err := message.NewEvent(ev, nil, snapshot, true)
				if err != nil {
					return nil, status.Error
				}
				return []any{m}, status.OK
			},
			MessageIteratorFinalize: func(ctx context.Context, c *component.Component, raw component.IteratorState) {
				if st, ok := raw.(*iteratorState); ok && st.commits != nil {
					st.commits.Close()
				}
			},
		},
	}
}

func setMember(payload *traceir.Field, name, v string) {
	member, ok := payload.MemberByName(name)
	if !ok {
		return
	}
	_ = member.SetString(v)
}
