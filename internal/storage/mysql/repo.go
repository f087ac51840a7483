package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"babystay/internal/domain"
	"babystay/internal/search"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Search runs the planner's count query and page query. The two reads
// share no transaction; search is read-only and the count/page staleness
// window is accepted.
func (r *Repo) Search(ctx context.Context, f search.Filters) (domain.SearchPage, error) {
	plan := search.BuildPlan(f)

	countSQL, countArgs := plan.CountSQL()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return domain.SearchPage{}, fmt.Errorf("count matches: %w", err)
	}

	pageSQL, pageArgs := plan.PageSQL()
	rows, err := r.db.QueryContext(ctx, pageSQL, pageArgs...)
	if err != nil {
		return domain.SearchPage{}, fmt.Errorf("fetch page: %w", err)
	}
	defer rows.Close()

	items := []domain.AccommodationSummary{}
	for rows.Next() {
		var (
			s      domain.AccommodationSummary
			thumb  sql.NullString
			avg    sql.NullFloat64
			minP   sql.NullFloat64
			rcount int
		)
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Description, &s.Address, &s.Region, &thumb,
			&s.TotalRooms, &s.CreatedAt, &s.UpdatedAt,
			&avg, &rcount, &minP,
		); err != nil {
			return domain.SearchPage{}, err
		}
		s.ThumbnailImage = strOrNil(thumb)
		s.AverageRating = ratingOrZero(avg)
		s.ReviewCount = rcount
		s.MinPrice = priceOrNil(minP)
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return domain.SearchPage{}, err
	}
	return domain.SearchPage{Items: items, Total: total}, nil
}

func (r *Repo) GetAccommodation(ctx context.Context, id int64) (domain.Accommodation, error) {
	var (
		a     domain.Accommodation
		thumb sql.NullString
	)
	err := r.db.QueryRowContext(ctx, getAccommodationSQL, id).Scan(
		&a.ID, &a.Name, &a.Description, &a.Address, &a.Region, &thumb,
		&a.TotalRooms, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Accommodation{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Accommodation{}, err
	}
	a.ThumbnailImage = strOrNil(thumb)
	return a, nil
}

func (r *Repo) ListImages(ctx context.Context, id int64) ([]domain.Image, error) {
	rows, err := r.db.QueryContext(ctx, listImagesSQL, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Image{}
	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(&img.ID, &img.ImageURL, &img.IsMain, &img.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (r *Repo) ListRoomTypes(ctx context.Context, id int64) ([]domain.RoomType, error) {
	rows, err := r.db.QueryContext(ctx, listRoomTypesSQL, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.RoomType{}
	for rows.Next() {
		var (
			rt   domain.RoomType
			desc sql.NullString
		)
		if err := rows.Scan(&rt.ID, &rt.AccommodationID, &rt.Name, &desc, &rt.MaxOccupancy, &rt.PricePerNight); err != nil {
			return nil, err
		}
		rt.Description = strOrNil(desc)
		out = append(out, rt)
	}
	return out, rows.Err()
}

// ListAmenities returns the flat amenity rows for one accommodation,
// optionally restricted to those suitable for a single age in months.
func (r *Repo) ListAmenities(ctx context.Context, id int64, ageMonth *int) ([]domain.AccommodationAmenity, error) {
	query := listAmenitiesSQL
	args := []any{id}
	if ageMonth != nil {
		query += listAmenitiesAgeCond
		args = append(args, *ageMonth, *ageMonth)
	}
	query += listAmenitiesOrder

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.AccommodationAmenity{}
	for rows.Next() {
		var (
			row         domain.AccommodationAmenity
			icon, notes sql.NullString
			from, to    sql.NullInt64
		)
		if err := rows.Scan(&row.ID, &row.Name, &icon, &row.IsAvailable, &notes, &from, &to, &row.CategoryName); err != nil {
			return nil, err
		}
		row.AccommodationID = id
		row.Icon = strOrNil(icon)
		row.Notes = strOrNil(notes)
		row.AgeMonthFrom = intOrNil(from)
		row.AgeMonthTo = intOrNil(to)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repo) ReviewStats(ctx context.Context, id int64) (domain.ReviewStats, error) {
	var (
		avg   sql.NullFloat64
		count int
	)
	if err := r.db.QueryRowContext(ctx, reviewStatsSQL, id).Scan(&avg, &count); err != nil {
		return domain.ReviewStats{}, err
	}
	return domain.ReviewStats{AverageRating: ratingOrZero(avg), ReviewCount: count}, nil
}

func (r *Repo) ListReviews(ctx context.Context, id int64) ([]domain.ReviewView, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ReviewView{}
	for rows.Next() {
		var (
			rv               domain.ReviewView
			childAge, people sql.NullInt64
			roomType         sql.NullString
			profile          sql.NullString
			pros, cons, imgs []byte
		)
		if err := rows.Scan(
			&rv.ID, &rv.AccommodationID, &rv.UserID, &rv.Rating, &rv.Content,
			&childAge, &people, &roomType, &rv.CreatedAt,
			&rv.UserName, &profile,
			&pros, &cons, &imgs,
		); err != nil {
			return nil, err
		}
		rv.ChildAgeMonths = intOrNil(childAge)
		rv.TotalPeople = intOrNil(people)
		rv.RoomType = strOrNil(roomType)
		rv.UserProfileImage = strOrNil(profile)
		rv.Pros = nilToEmptyTags(pros)
		rv.Cons = nilToEmptyTags(cons)
		rv.Images = nilToEmptyImages(imgs)
		out = append(out, rv)
	}
	return out, rows.Err()
}

// ---- wishlists ----

func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]domain.WishlistEntry, error) {
	rows, err := r.db.QueryContext(ctx, listWishlistSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.WishlistEntry{}
	for rows.Next() {
		var (
			e     domain.WishlistEntry
			thumb sql.NullString
			avg   sql.NullFloat64
			minP  sql.NullFloat64
		)
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.AccommodationID, &e.CreatedAt,
			&e.Name, &e.Description, &e.Address, &e.Region, &thumb,
			&avg, &e.ReviewCount, &minP,
		); err != nil {
			return nil, err
		}
		e.ThumbnailImage = strOrNil(thumb)
		e.AverageRating = ratingOrZero(avg)
		e.MinPrice = priceOrNil(minP)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) Add(ctx context.Context, userID, accommodationID int64) (domain.Wishlist, error) {
	res, err := r.db.ExecContext(ctx, insertWishlistSQL, userID, accommodationID)
	if err != nil {
		return domain.Wishlist{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Wishlist{}, err
	}
	var w domain.Wishlist
	if err := r.db.QueryRowContext(ctx, getWishlistSQL, id).Scan(&w.ID, &w.UserID, &w.AccommodationID, &w.CreatedAt); err != nil {
		return domain.Wishlist{}, err
	}
	return w, nil
}

func (r *Repo) Remove(ctx context.Context, userID, accommodationID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteWishlistSQL, userID, accommodationID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repo) Contains(ctx context.Context, userID, accommodationID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, containsWishlistSQL, userID, accommodationID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ---- master data ----

func (r *Repo) AgeMonthRanges(ctx context.Context) ([]domain.AgeMonthRange, error) {
	rows, err := r.db.QueryContext(ctx, ageMonthRangesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.AgeMonthRange{}
	for rows.Next() {
		var (
			a  domain.AgeMonthRange
			to sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.Label, &a.MonthFrom, &to); err != nil {
			return nil, err
		}
		a.MonthTo = intOrNil(to)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) AmenityCategories(ctx context.Context) ([]domain.AmenityCategory, error) {
	rows, err := r.db.QueryContext(ctx, amenityCategoriesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.AmenityCategory{}
	for rows.Next() {
		var c domain.AmenityCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) Amenities(ctx context.Context) ([]domain.Amenity, error) {
	rows, err := r.db.QueryContext(ctx, amenityCatalogSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Amenity{}
	for rows.Next() {
		var (
			a        domain.Amenity
			icon     sql.NullString
			from, to sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.CategoryID, &a.CategoryName, &a.Name, &icon, &from, &to); err != nil {
			return nil, err
		}
		a.Icon = strOrNil(icon)
		a.AgeMonthFrom = intOrNil(from)
		a.AgeMonthTo = intOrNil(to)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) ReviewPros(ctx context.Context) ([]domain.ReviewTag, error) {
	return r.reviewTags(ctx, reviewProsSQL)
}

func (r *Repo) ReviewCons(ctx context.Context) ([]domain.ReviewTag, error) {
	return r.reviewTags(ctx, reviewConsSQL)
}

func (r *Repo) reviewTags(ctx context.Context, query string) ([]domain.ReviewTag, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ReviewTag{}
	for rows.Next() {
		var t domain.ReviewTag
		if err := rows.Scan(&t.ID, &t.Category, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ---- fixture writes (seeder) ----

func (r *Repo) UpsertAmenityCatalog(ctx context.Context, cats []domain.AmenityCategory, ams []domain.Amenity) error {
	for _, c := range cats {
		if _, err := r.db.ExecContext(ctx, upsertCategorySQL, c.ID, c.Name); err != nil {
			return fmt.Errorf("upsert category %d: %w", c.ID, err)
		}
	}
	for _, a := range ams {
		if _, err := r.db.ExecContext(ctx, upsertAmenitySQL,
			a.ID, a.CategoryID, a.Name, valStr(a.Icon), valInt(a.AgeMonthFrom), valInt(a.AgeMonthTo),
		); err != nil {
			return fmt.Errorf("upsert amenity %d: %w", a.ID, err)
		}
	}
	return nil
}

func (r *Repo) UpsertAccommodation(ctx context.Context, a domain.Accommodation, rooms []domain.RoomType, images []domain.Image) error {
	if _, err := r.db.ExecContext(ctx, upsertAccommodationSQL,
		a.ID, a.Name, a.Description, a.Address, a.Region, valStr(a.ThumbnailImage), a.TotalRooms,
	); err != nil {
		return fmt.Errorf("upsert accommodation %d: %w", a.ID, err)
	}
	for _, rt := range rooms {
		if _, err := r.db.ExecContext(ctx, upsertRoomTypeSQL,
			rt.ID, a.ID, rt.Name, valStr(rt.Description), rt.MaxOccupancy, rt.PricePerNight,
		); err != nil {
			return fmt.Errorf("upsert room type %d: %w", rt.ID, err)
		}
	}
	for _, img := range images {
		if _, err := r.db.ExecContext(ctx, upsertImageSQL,
			img.ID, a.ID, img.ImageURL, img.IsMain, img.SortOrder,
		); err != nil {
			return fmt.Errorf("upsert image %d: %w", img.ID, err)
		}
	}
	return nil
}

func (r *Repo) LinkAmenities(ctx context.Context, accommodationID int64, links []domain.AmenityLink) error {
	for _, l := range links {
		if _, err := r.db.ExecContext(ctx, linkAmenitySQL,
			accommodationID, l.AmenityID, l.IsAvailable, valStr(l.Notes),
		); err != nil {
			return fmt.Errorf("link amenity %d: %w", l.AmenityID, err)
		}
	}
	return nil
}

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
