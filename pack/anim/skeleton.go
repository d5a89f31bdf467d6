package anim

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/anim_browser/config"
	"github.com/mogaika/anim_browser/stream"
)

var ErrDanglingReference = errors.New("dangling joint reference")

// Skeleton is index aligned with the joint record table
type Skeleton []Joint

func DecodeJointRecord(r *stream.Reader) (JointRecord, error) {
	var jr JointRecord
	var err error

	if jr.Parent, err = r.ReadI16(); err != nil {
		return jr, errors.Wrapf(err, "parent")
	}
	if jr.Name, err = r.ReadString(); err != nil {
		return jr, errors.Wrapf(err, "name")
	}
	if jr.Rotation, err = r.ReadQuat(); err != nil {
		return jr, errors.Wrapf(err, "rotation")
	}
	if jr.Translation, err = r.ReadVec3(); err != nil {
		return jr, errors.Wrapf(err, "translation")
	}
	return jr, nil
}

type buildState uint8

const (
	stateUnbuilt buildState = iota
	stateResolving
	stateBuilt
)

type skeletonBuilder struct {
	records []JointRecord
	state   []buildState
	joints  Skeleton
	chain   []int
}

// resolve walks parents of id up to a root or an already built joint,
// then builds the collected chain from the top down.
func (b *skeletonBuilder) resolve(id int) error {
	b.chain = b.chain[:0]
	for cur := id; cur != JOINT_PARENT_NONE && b.state[cur] != stateBuilt; {
		if b.state[cur] == stateResolving {
			return errors.Wrapf(ErrDanglingReference, "joint %d: parent chain loops through joint %d", id, cur)
		}
		b.state[cur] = stateResolving
		b.chain = append(b.chain, cur)

		parent := int(b.records[cur].Parent)
		if parent != JOINT_PARENT_NONE && (parent < 0 || parent >= len(b.records)) {
			return errors.Wrapf(ErrDanglingReference, "joint %d (%q): parent %d out of table of %d",
				cur, b.records[cur].Name, parent, len(b.records))
		}
		cur = parent
	}

	for i := len(b.chain) - 1; i >= 0; i-- {
		b.build(b.chain[i])
	}
	return nil
}

func (b *skeletonBuilder) build(id int) {
	rec := &b.records[id]
	depth := 0
	if rec.Parent != JOINT_PARENT_NONE {
		depth = b.joints[rec.Parent].Depth + 1
	}
	b.joints[id] = Joint{
		Id:          id,
		Parent:      rec.Parent,
		Depth:       depth,
		Name:        rec.Name,
		Rotation:    rec.Rotation,
		Translation: rec.Translation,
	}
	b.state[id] = stateBuilt
}

// BuildSkeleton links the flat record table into a joint tree.
// Parent references may point forward or backward in the table.
func BuildSkeleton(records []JointRecord) (Skeleton, error) {
	b := &skeletonBuilder{
		records: records,
		state:   make([]buildState, len(records)),
		joints:  make(Skeleton, len(records)),
		chain:   make([]int, 0, 16),
	}
	for i := range records {
		if b.state[i] == stateBuilt {
			continue
		}
		if err := b.resolve(i); err != nil {
			return nil, err
		}
	}
	return b.joints, nil
}

// Parent returns the parent joint, shared by all of its children
func (s Skeleton) Parent(id int) (*Joint, bool) {
	j := &s[id]
	if j.IsRoot() {
		return nil, false
	}
	return &s[j.Parent], true
}

func (s Skeleton) Roots() []int {
	roots := make([]int, 0, 1)
	for i := range s {
		if s[i].IsRoot() {
			roots = append(roots, i)
		}
	}
	return roots
}

func (s Skeleton) Children(id int) []int {
	children := make([]int, 0)
	for i := range s {
		if int(s[i].Parent) == id {
			children = append(children, i)
		}
	}
	return children
}

func (s Skeleton) ByName(name string) (*Joint, bool) {
	for i := range s {
		if s[i].Name == name {
			return &s[i], true
		}
	}
	return nil, false
}

// Quat interprets the raw rotation according to config rotation order
func (j *Joint) Quat() mgl32.Quat {
	r := j.Rotation
	if config.Get().RotationOrder == config.ROTATION_WXYZ {
		return mgl32.Quat{W: r[0], V: mgl32.Vec3{r[1], r[2], r[3]}}
	}
	return mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
}

func (j *Joint) LocalMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(j.Translation[0], j.Translation[1], j.Translation[2]).
		Mul4(j.Quat().Normalize().Mat4())
}

// WorldMatrices returns bind pose joint to model space matrices
func (s Skeleton) WorldMatrices() []mgl32.Mat4 {
	order := make([]int, len(s))
	for i := range order {
		order[i] = i
	}
	// parents always have smaller depth than their children
	sort.SliceStable(order, func(a, b int) bool { return s[order[a]].Depth < s[order[b]].Depth })

	worlds := make([]mgl32.Mat4, len(s))
	for _, id := range order {
		j := &s[id]
		if j.IsRoot() {
			worlds[id] = j.LocalMatrix()
		} else {
			worlds[id] = worlds[j.Parent].Mul4(j.LocalMatrix())
		}
	}
	return worlds
}

// childIndex lists children of every joint and the roots, in table order
func (s Skeleton) childIndex() (children [][]int, roots []int) {
	children = make([][]int, len(s))
	for i := range s {
		if s[i].IsRoot() {
			roots = append(roots, i)
		} else {
			children[s[i].Parent] = append(children[s[i].Parent], i)
		}
	}
	return children, roots
}

func (s Skeleton) StringTree() string {
	var buffer bytes.Buffer
	children, roots := s.childIndex()

	stack := make([]int, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		j := &s[id]
		q := j.Rotation
		fmt.Fprintf(&buffer, "%*sjoint [%.4x <=%.4x] %s rot: [%v %v %v %v] pos: %v\n",
			j.Depth*2, "", j.Id, uint16(j.Parent), j.Name, q[0], q[1], q[2], q[3], j.Translation)

		for i := len(children[id]) - 1; i >= 0; i-- {
			stack = append(stack, children[id][i])
		}
	}
	return buffer.String()
}
