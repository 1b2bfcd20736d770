// Package processing runs background work on uploaded photos that should
// not block the upload request, currently just face matching for challenge
// submissions. Each task runs at most once per photo; the outcome is kept in
// a per-photo status record.
package processing

import (
	"log"
	"time"

	"guestsnap/db"
	"guestsnap/faces"
	"guestsnap/models"
	"guestsnap/realtime"
	"guestsnap/storage"
)

type processingTask interface {
	getName() string
	shouldHandle(*models.Photo) bool
	process(*models.Photo, storage.StorageAPI) int
}

var (
	tasks = map[string]processingTask{}
	hub   *realtime.Hub
)

func registerTask(t processingTask) {
	tasks[t.getName()] = t
}

func Init(h *realtime.Hub, matcher faces.Matcher) {
	if err := db.Instance.AutoMigrate(&ProcessingTask{}); err != nil {
		log.Printf("Auto-migrate error: %v", err)
	}
	hub = h
	if matcher != nil {
		registerTask(&matchGuests{matcher: matcher})
	}
}

// processPending picks up photos that have no processing record yet, or
// whose record covers fewer tasks than are currently registered. Photos get
// a short grace period so the upload transaction is long done.
func processPending() {
	rows, err := db.Instance.
		Table("photos").
		Joins("LEFT JOIN processing_tasks ON (photos.id = processing_tasks.photo_id)").
		Select("photos.id, IFNULL(processing_tasks.status, ''), processing_tasks.photo_id").
		Where("photos.size>0 AND "+
			"? - photos.created_at > 10 AND "+
			"(processing_tasks.status IS NULL OR "+
			"  LENGTH(processing_tasks.status)-LENGTH(REPLACE(processing_tasks.status, ',', ''))+1 < ?)",
			time.Now().Unix(), len(tasks)).
		Order("photos.created_at").Rows()
	if err != nil {
		log.Printf("processPending error: %v", err)
		return
	}
	defer rows.Close()
	for rows.Next() {
		photo := models.Photo{}
		status := ""
		var recordID *uint64
		if err = rows.Scan(&photo.ID, &status, &recordID); err != nil {
			log.Printf("processPending row error: %v", err)
			break
		}
		if err = db.Instance.Preload("Bucket").First(&photo).Error; err != nil {
			log.Printf("processPending load photo error: %v", err)
			continue
		}
		st := storage.StorageFrom(&photo.Bucket)
		current := ProcessingTask{
			PhotoID: photo.ID,
			Status:  status,
		}
		statusMap := current.statusToMap()
		for taskName, task := range tasks {
			if _, ok := statusMap[taskName]; ok {
				continue
			}
			if !task.shouldHandle(&photo) {
				statusMap[taskName] = Skipped
				continue
			}
			if st == nil {
				statusMap[taskName] = FailedStorage
				continue
			}
			start := time.Now()
			statusMap[taskName] = task.process(&photo, st)
			log.Printf("Task %s, photo: %d, result: %d, time: %v", taskName, photo.ID, statusMap[taskName], time.Since(start).Milliseconds())
		}
		current.updateWith(statusMap)
		if recordID == nil {
			err = db.Instance.Create(&current).Error
		} else {
			err = db.Instance.Save(&current).Error
		}
		if err != nil {
			log.Printf("processPending save task error: %v", err)
		}
	}
}

func StartProcessing() {
	if len(tasks) == 0 {
		return
	}
	for {
		processPending()
		time.Sleep(10 * time.Second)
	}
}
