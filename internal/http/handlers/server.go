package handlers

import (
	repo "github.com/rogerio-castellano/bakery-api/internal/repo"
)

var (
	bakeryRepo    repo.BakeryRepository
	bakedGoodRepo repo.BakedGoodRepository
	metricsRepo   repo.MetricsRepository
)

func SetBakeryRepo(r repo.BakeryRepository) {
	bakeryRepo = r
}

func SetBakedGoodRepo(r repo.BakedGoodRepository) {
	bakedGoodRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}
