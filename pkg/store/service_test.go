package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/redhat-data-and-ai/usermgmt/pkg/common/structs"
	"github.com/redhat-data-and-ai/usermgmt/pkg/store/mocks"
)

var _ = Describe("EntityService", func() {
	var (
		ctx      context.Context
		ctrl     *gomock.Controller
		accessor *mocks.MockRecordAccessor
	)

	newGroup := func(name string) *structs.Group {
		g, err := structs.NewGroup(name, "")
		Expect(err).NotTo(HaveOccurred())
		return g
	}

	expectGroupRecords := func(m *mocks.MockRecordAccessor, records ...GroupRecord) {
		m.EXPECT().ReadRecords(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, out interface{}) error {
				*out.(*[]GroupRecord) = records
				return nil
			}).Times(1)
	}

	expectUserRecords := func(m *mocks.MockRecordAccessor, records ...UserRecord) {
		m.EXPECT().ReadRecords(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, out interface{}) error {
				*out.(*[]UserRecord) = records
				return nil
			}).Times(1)
	}

	BeforeEach(func() {
		ctx = context.Background()
		ctrl = gomock.NewController(GinkgoT())
		accessor = mocks.NewMockRecordAccessor(ctrl)
		accessor.EXPECT().Identify().Return("mock://groups").AnyTimes()
	})

	Context("when loading", func() {
		It("starts empty when the resource does not exist yet", func() {
			accessor.EXPECT().ReadRecords(gomock.Any(), gomock.Any()).Return(nil).Times(1)

			svc, err := NewGroupService(ctx, accessor)
			Expect(err).NotTo(HaveOccurred())
			Expect(svc.GetAllEntities()).To(BeEmpty())
			Expect(svc.DirtyCount()).To(Equal(0))
		})

		It("caches every persisted record", func() {
			expectGroupRecords(accessor,
				GroupRecord{Name: "devs", DisplayName: "Developers"},
				GroupRecord{Name: "ops"},
			)

			svc, err := NewGroupService(ctx, accessor)
			Expect(err).NotTo(HaveOccurred())
			Expect(svc.GetAllEntities()).To(HaveLen(2))

			devs, ok := svc.GetEntity("devs")
			Expect(ok).To(BeTrue())
			Expect(devs.GetDisplayName()).To(Equal("Developers"))

			ops, ok := svc.GetEntity("ops")
			Expect(ok).To(BeTrue())
			Expect(ops.GetDisplayName()).To(Equal("ops"))
		})

		It("fails when the resource cannot be read", func() {
			accessor.EXPECT().ReadRecords(gomock.Any(), gomock.Any()).
				Return(fmt.Errorf("%w mock://groups: broken", structs.ErrResourceRead)).Times(1)

			svc, err := NewGroupService(ctx, accessor)
			Expect(err).To(MatchError(structs.ErrResourceRead))
			Expect(svc).To(BeNil())
		})

		It("fails when a record cannot be converted", func() {
			expectGroupRecords(accessor, GroupRecord{Name: "devs"}, GroupRecord{Name: ""})

			svc, err := NewGroupService(ctx, accessor)
			Expect(err).To(MatchError(structs.ErrInvalidEntity))
			Expect(svc).To(BeNil())
		})

		It("rejects a dirty limit below one", func() {
			svc, err := NewGroupService(ctx, accessor, WithDirtyLimit(0))
			Expect(err).To(MatchError(ErrInvalidDirtyLimit))
			Expect(svc).To(BeNil())
		})
	})

	Context("with a dirty limit of 2", func() {
		var svc *GroupService

		BeforeEach(func() {
			accessor.EXPECT().ReadRecords(gomock.Any(), gomock.Any()).Return(nil).Times(1)

			var err error
			svc, err = NewGroupService(ctx, accessor, WithDirtyLimit(2))
			Expect(err).NotTo(HaveOccurred())
		})

		It("writes both groups once the second one is managed", func() {
			var written []GroupRecord
			accessor.EXPECT().WriteRecords(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, records interface{}) error {
					written = records.([]GroupRecord)
					return nil
				}).Times(1)

			Expect(svc.ManageEntity(ctx, newGroup("a"))).To(Succeed())
			Expect(svc.DirtyCount()).To(Equal(1))
			Expect(written).To(BeNil())

			Expect(svc.ManageEntity(ctx, newGroup("b"))).To(Succeed())
			Expect(svc.DirtyCount()).To(Equal(0))
			Expect(written).To(ConsistOf(
				GroupRecord{Name: "a", DisplayName: "a"},
				GroupRecord{Name: "b", DisplayName: "b"},
			))
		})

		It("counts updates and deletes like any other mutation", func() {
			accessor.EXPECT().WriteRecords(gomock.Any(), gomock.Any()).Return(nil).Times(1)

			a := newGroup("a")
			Expect(svc.ManageEntity(ctx, a)).To(Succeed())
			Expect(svc.DeleteEntity(ctx, a)).To(Succeed())
			Expect(svc.DirtyCount()).To(Equal(0))

			Expect(svc.UpdateEntity(ctx, newGroup("b"))).To(Succeed())
			Expect(svc.DirtyCount()).To(Equal(1))
		})

		It("ignores nil updates", func() {
			Expect(svc.UpdateEntity(ctx, nil)).To(Succeed())
			Expect(svc.DirtyCount()).To(Equal(0))
		})

		It("leaves the dirty count alone when deleting an unknown entity", func() {
			Expect(svc.ManageEntity(ctx, newGroup("a"))).To(Succeed())

			err := svc.DeleteEntity(ctx, newGroup("ghost"))
			Expect(err).To(MatchError(structs.ErrUnknownEntity))
			Expect(svc.DirtyCount()).To(Equal(1))
		})

		It("replaces an entity managed twice under the same name", func() {
			accessor.EXPECT().WriteRecords(gomock.Any(), gomock.Any()).Return(nil).Times(1)

			old, _ := structs.NewGroup("a", "Old")
			replacement, _ := structs.NewGroup("a", "New")
			Expect(svc.ManageEntity(ctx, old)).To(Succeed())
			Expect(svc.ManageEntity(ctx, replacement)).To(Succeed())

			Expect(svc.GetAllEntities()).To(HaveLen(1))
			got, _ := svc.GetEntity("a")
			Expect(got.GetDisplayName()).To(Equal("New"))
		})

		It("keeps the dirty count when the write fails and retries on the next mutation", func() {
			gomock.InOrder(
				accessor.EXPECT().WriteRecords(gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("%w mock://groups: disk full", structs.ErrResourceWrite)),
				accessor.EXPECT().WriteRecords(gomock.Any(), gomock.Any()).Return(nil),
			)

			Expect(svc.ManageEntity(ctx, newGroup("a"))).To(Succeed())
			err := svc.ManageEntity(ctx, newGroup("b"))
			Expect(err).To(MatchError(structs.ErrResourceWrite))
			Expect(svc.DirtyCount()).To(Equal(2))

			_, ok := svc.GetEntity("b")
			Expect(ok).To(BeTrue())

			Expect(svc.ManageEntity(ctx, newGroup("c"))).To(Succeed())
			Expect(svc.DirtyCount()).To(Equal(0))
		})

		It("flushes on demand only when dirty", func() {
			Expect(svc.FlushIfDirty(ctx)).To(Succeed())

			accessor.EXPECT().WriteRecords(gomock.Any(), gomock.Any()).Return(nil).Times(1)
			Expect(svc.ManageEntity(ctx, newGroup("a"))).To(Succeed())
			Expect(svc.FlushIfDirty(ctx)).To(Succeed())
			Expect(svc.DirtyCount()).To(Equal(0))

			Expect(svc.FlushIfDirty(ctx)).To(Succeed())
		})

		It("writes unconditionally on Flush", func() {
			accessor.EXPECT().WriteRecords(gomock.Any(), []GroupRecord{}).Return(nil).Times(1)
			Expect(svc.Flush(ctx)).To(Succeed())
			Expect(svc.DirtyCount()).To(Equal(0))
		})
	})

	It("flushes exactly once per dirty limit under concurrent callers", func() {
		accessor.EXPECT().ReadRecords(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		svc, err := NewGroupService(ctx, accessor)
		Expect(err).NotTo(HaveOccurred())

		accessor.EXPECT().WriteRecords(gomock.Any(), gomock.Any()).Return(nil).Times(10)

		var wg sync.WaitGroup
		for i := 0; i < 10*DefaultDirtyLimit; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				defer GinkgoRecover()
				g, _ := structs.NewGroup(fmt.Sprintf("group-%03d", i), "")
				Expect(svc.ManageEntity(ctx, g)).To(Succeed())
			}(i)
		}
		wg.Wait()

		Expect(svc.DirtyCount()).To(Equal(0))
		Expect(svc.GetAllEntities()).To(HaveLen(10 * DefaultDirtyLimit))
	})

	Context("for users", func() {
		var (
			groups       *GroupService
			userAccessor *mocks.MockRecordAccessor
		)

		BeforeEach(func() {
			expectGroupRecords(accessor, GroupRecord{Name: "devs", DisplayName: "Developers"})

			var err error
			groups, err = NewGroupService(ctx, accessor)
			Expect(err).NotTo(HaveOccurred())

			userAccessor = mocks.NewMockRecordAccessor(ctrl)
			userAccessor.EXPECT().Identify().Return("mock://users").AnyTimes()
		})

		It("resolves the group of every user", func() {
			expectUserRecords(userAccessor, UserRecord{
				Name:     "jdoe",
				Group:    "devs",
				Password: PasswordRecord{Digest: "SHA-256", HashedPassword: "abc"},
			})

			users, err := NewUserService(ctx, userAccessor, groups)
			Expect(err).NotTo(HaveOccurred())

			jdoe, ok := users.GetEntity("jdoe")
			Expect(ok).To(BeTrue())
			devs, _ := groups.GetEntity("devs")
			Expect(jdoe.GetGroup()).To(BeIdenticalTo(devs))
			Expect(jdoe.GetPassword().GetDigest()).To(Equal(structs.SHA256))
		})

		It("refuses to start when a user names an unknown group", func() {
			expectUserRecords(userAccessor, UserRecord{
				Name:     "jdoe",
				Group:    "ghosts",
				Password: PasswordRecord{Digest: "SHA-256", HashedPassword: "abc"},
			})

			users, err := NewUserService(ctx, userAccessor, groups)
			Expect(err).To(MatchError(structs.ErrReferentialIntegrity))
			Expect(err.Error()).To(ContainSubstring("ghosts"))
			Expect(users).To(BeNil())
		})

		It("refuses to start when a password uses an unknown digest", func() {
			expectUserRecords(userAccessor, UserRecord{
				Name:     "jdoe",
				Group:    "devs",
				Password: PasswordRecord{Digest: "MD5", HashedPassword: "abc"},
			})

			_, err := NewUserService(ctx, userAccessor, groups)
			Expect(errors.Is(err, structs.ErrUnknownDigest)).To(BeTrue())
		})

		It("writes group names, not nested groups", func() {
			expectUserRecords(userAccessor)
			users, err := NewUserService(ctx, userAccessor, groups, WithDirtyLimit(1))
			Expect(err).NotTo(HaveOccurred())

			var written []UserRecord
			userAccessor.EXPECT().WriteRecords(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, records interface{}) error {
					written = records.([]UserRecord)
					return nil
				}).Times(1)

			devs, _ := groups.GetEntity("devs")
			password, _ := structs.NewPassword(structs.SHA512, "hash")
			jdoe, _ := structs.NewUser("jdoe", "John", devs, password)
			Expect(users.ManageEntity(ctx, jdoe)).To(Succeed())

			Expect(written).To(Equal([]UserRecord{{
				Name:        "jdoe",
				DisplayName: "John",
				Group:       "devs",
				Password:    PasswordRecord{Digest: "SHA-512", HashedPassword: "hash"},
			}}))
		})
	})
})
